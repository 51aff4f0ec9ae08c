package order

// ItemTypeTripTicket tags line items that purchase trip seats.
const ItemTypeTripTicket = "TripTicket"

// LineItem is a priced, quantified reference to a purchasable unit within an
// order.
type LineItem struct {
	ID        string  `json:"lineItemID"`
	OrderID   string  `json:"orderID"`
	ItemID    string  `json:"itemID"`
	ItemType  string  `json:"itemType"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

func (li LineItem) LineTotal() float64 {
	return float64(li.Quantity) * li.UnitPrice
}
