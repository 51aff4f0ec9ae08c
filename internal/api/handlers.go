package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dchgoh/SWE30003-ART-System/internal/api/middleware"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/notification"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/order"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/ticket"
	"github.com/dchgoh/SWE30003-ART-System/internal/usecase"
)

type Handlers struct {
	accounts  *usecase.UserAccounts
	tokens    *TokenIssuer
	catalogue *usecase.TripCatalogue
	booking   *usecase.BookTrip
	refund    *usecase.RefundOrder
	orders    *usecase.OrderService
	tickets   usecase.TicketStore
	desk      *usecase.FeedbackDesk
	network   *usecase.TransitNetwork
	notifier  *usecase.Notifier
}

func NewHandlers(
	accounts *usecase.UserAccounts,
	tokens *TokenIssuer,
	catalogue *usecase.TripCatalogue,
	booking *usecase.BookTrip,
	refund *usecase.RefundOrder,
	orders *usecase.OrderService,
	tickets usecase.TicketStore,
	desk *usecase.FeedbackDesk,
	network *usecase.TransitNetwork,
	notifier *usecase.Notifier,
) *Handlers {
	return &Handlers{
		accounts:  accounts,
		tokens:    tokens,
		catalogue: catalogue,
		booking:   booking,
		refund:    refund,
		orders:    orders,
		tickets:   tickets,
		desk:      desk,
		network:   network,
		notifier:  notifier,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.accounts.Register(r.Context(), usecase.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"userID":   u.ID,
		"username": u.Username,
		"email":    u.Email,
		"userType": string(u.Type),
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"userID":   u.ID,
		"userType": string(u.Type),
	})
}

func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	filter := usecase.TripFilter{
		Origin:      r.URL.Query().Get("origin"),
		Destination: r.URL.Query().Get("destination"),
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.Date = d
	}

	trips, err := h.catalogue.Search(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalogue.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin        string  `json:"origin"`
		Destination   string  `json:"destination"`
		DepartureTime string  `json:"departureTime"`
		Price         float64 `json:"price"`
		Seats         int     `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	departure, err := time.Parse(time.RFC3339, req.DepartureTime)
	if err != nil {
		http.Error(w, "departureTime must be RFC3339", http.StatusBadRequest)
		return
	}
	if req.Seats < 1 || req.Price < 0 {
		http.Error(w, "seats must be positive and price non-negative", http.StatusBadRequest)
		return
	}

	t, err := h.catalogue.Create(r.Context(), usecase.CreateTripParams{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: departure,
		Price:         req.Price,
		Seats:         req.Seats,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TripID   string `json:"tripID"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.booking.Execute(r.Context(), usecase.BookTripParams{
		UserID:   middleware.UserID(r.Context()),
		TripID:   req.TripID,
		Quantity: req.Quantity,
	})
	if err != nil {
		bookingsTotal.WithLabelValues("failure").Inc()
		writeError(w, err)
		return
	}

	bookingsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":   res.Order,
		"tickets": res.Tickets,
	})
}

type bookingView struct {
	Order   order.Order     `json:"order"`
	Tickets []ticket.Ticket `json:"tickets"`
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	orders, err := h.orders.FindByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]bookingView, 0, len(orders))
	for _, o := range orders {
		tickets, err := h.tickets.FindByOrderID(r.Context(), o.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		views = append(views, bookingView{Order: o, Tickets: tickets})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) RefundOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	userID := middleware.UserID(r.Context())

	res, err := h.refund.Execute(r.Context(), usecase.RefundOrderParams{
		UserID:  userID,
		OrderID: orderID,
	})
	if err != nil {
		refundsTotal.WithLabelValues("failure").Inc()
		writeError(w, err)
		return
	}

	if res.AllProcessed {
		refundsTotal.WithLabelValues("success").Inc()
	} else {
		refundsTotal.WithLabelValues("partial").Inc()
	}

	// Notification sits outside the refund's consistency boundary: a failure
	// here is logged by the notifier path, never surfaced to the caller.
	if res.RefundedTickets > 0 {
		h.notifier.Notify(r.Context(), usecase.NotifyParams{
			RecipientUserID: userID,
			Message:         fmt.Sprintf("Your refund for order %s has been processed (%d tickets).", orderID, res.RefundedTickets),
			Type:            notification.TypeRefundProcessed,
			CorrelationID:   orderID,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orderStatus":     res.OrderStatus,
		"refundedTickets": res.RefundedTickets,
		"allProcessed":    res.AllProcessed,
		"messages":        res.Messages,
	})
}

func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
		TripID  string `json:"tripID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	f, err := h.desk.Submit(r.Context(), usecase.SubmitFeedbackParams{
		UserID:        middleware.UserID(r.Context()),
		Content:       req.Content,
		Rating:        req.Rating,
		RelatedTripID: req.TripID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *Handlers) ListFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := h.desk.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	type view struct {
		Feedback  any `json:"feedback"`
		Responses any `json:"responses"`
	}
	out := make([]view, 0, len(list))
	for _, fr := range list {
		out = append(out, view{Feedback: fr.Feedback, Responses: fr.Responses})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) RespondFeedback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.desk.Respond(r.Context(), usecase.RespondParams{
		FeedbackID: chi.URLParam(r, "id"),
		AdminID:    middleware.UserID(r.Context()),
		Content:    req.Content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.network.ListRoutes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (h *Handlers) RouteDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.network.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	type stopView struct {
		Stop     any `json:"stop"`
		Location any `json:"location,omitempty"`
	}
	stops := make([]stopView, 0, len(details.Stops))
	for _, sd := range details.Stops {
		sv := stopView{Stop: sd.Stop}
		if sd.Location != nil {
			sv.Location = sd.Location
		}
		stops = append(stops, sv)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"route": details.Route,
		"stops": stops,
	})
}

func (h *Handlers) UpdateStopLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RouteID   string  `json:"routeID"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Address   string  `json:"address"`
		City      string  `json:"city"`
		Postcode  string  `json:"postcode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	loc, err := h.network.UpdateStopLocation(r.Context(), usecase.UpdateStopLocationParams{
		RouteID:   req.RouteID,
		StopID:    chi.URLParam(r, "id"),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		City:      req.City,
		Postcode:  req.Postcode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notifier.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
