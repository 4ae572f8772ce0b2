package http

import (
	"net/http"

	"household/internal/core"
	"household/internal/log"
	"household/internal/services"
)

type createBillRequest struct {
	Name      string            `json:"name"`
	Amount    core.Money        `json:"amount"`
	DueDate   core.Date         `json:"due_date"`
	Recurring bool              `json:"recurring"`
	Category  core.BillCategory `json:"category"`
}

type billListBody struct {
	listBody[core.Bill]
	Total core.Money `json:"total"`
}

// handleListBills supports ?category=&q=&sort=&from=&to=&unpaid=.
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category, err := core.ParseBillCategoryFilter(queryString(q, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sortKey, err := services.ParseBillSortKey(queryString(q, "sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryDate(q, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(q, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	unpaid, err := queryBool(q, "unpaid")
	if err != nil {
		writeError(w, r, err)
		return
	}

	bills, err := s.household.ListBills(r.Context(), services.BillQuery{
		Category: category,
		Search:   queryString(q, "q"),
		Sort:     sortKey,
		From:     from,
		To:       to,
		Unpaid:   unpaid,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := services.TotalDue(bills)
	if err != nil {
		writeError(w, r, err)
		return
	}

	NewJSONResponse().Body(billListBody{
		listBody: newListBody(bills),
		Total:    total,
	}).Send(w)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := core.NewBill(req.Name, req.Amount, req.DueDate, req.Recurring, req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.household.AddBill(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	s.amountChanged(r, log.OpCreate, "bill", b.ID, b.Name, b.Amount)
	NewJSONResponse().Status(http.StatusCreated).Header("Location", "/api/bills/"+b.ID).Body(b).Send(w)
}

// handleSetBillPaid builds the POST (paid) and DELETE (unpaid) handlers.
func (s *Server) handleSetBillPaid(paid bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := s.household.SetBillPaid(r.Context(), r.PathValue("id"), paid)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.amountChanged(r, log.OpUpdate, "bill", b.ID, b.Name, b.Amount)
		NewJSONResponse().Body(b).Send(w)
	}
}

func (s *Server) handleBillSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.BillSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(summary).Send(w)
}

func (s *Server) handleBillBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.dashboard.BillBuckets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(buckets).Send(w)
}
