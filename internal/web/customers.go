package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/unclebandit/customer-records/internal/client"
	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/validation"
)

type listData struct {
	Search     string
	Customers  []model.Customer
	Page       int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

type customerFormData struct {
	Action      string
	CancelURL   string
	Input       model.CustomerInput
	FieldErrors map[string]string
	FormError   string
}

type detailData struct {
	Customer  *model.Customer
	Addresses []model.Address
}

type confirmData struct {
	Subject   string
	Action    string
	CancelURL string
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	list, err := h.API.ListCustomers(r.Context(), client.ListParams{Search: search, Page: page, Limit: h.PageSize})
	if err != nil {
		h.pageError(w, r, "Customers", err)
		return
	}

	data := listData{
		Search:     search,
		Customers:  list.Data,
		Page:       list.Page,
		Total:      list.Total,
		TotalPages: list.TotalPages,
		HasPrev:    list.Page > 1,
		HasNext:    list.Page < list.TotalPages,
	}
	data.PrevURL = listURL(search, list.Page-1)
	data.NextURL = listURL(search, list.Page+1)

	h.render(w, r, http.StatusOK, "customers", view{Title: "Customers", Data: data})
}

func listURL(search string, page int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	return "/customers?" + q.Encode()
}

func (h *Handler) NewCustomer(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "customer_form", view{
		Title: "New customer",
		Data:  customerFormData{Action: "/customers", CancelURL: "/customers"},
	})
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	in := customerFromForm(r)
	form := customerFormData{Action: "/customers", CancelURL: "/customers", Input: in}

	if form.FieldErrors = validation.Fields(in); form.FieldErrors != nil {
		form.FormError = "Please fix the highlighted fields."
		h.render(w, r, http.StatusBadRequest, "customer_form", view{Title: "New customer", Data: form})
		return
	}

	id, err := h.API.CreateCustomer(r.Context(), in)
	if err != nil {
		h.formFailure(w, r, "customer_form", "New customer", err, func(msg string) any {
			form.FormError = msg
			return form
		})
		return
	}

	redirectWithFlash(w, r, "/customers/"+strconv.Itoa(id), "success", "Customer created successfully")
}

func (h *Handler) CustomerDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	customer, addresses, err := h.fetchCustomerWithAddresses(r, id)
	if err != nil {
		h.pageError(w, r, "Customer", err)
		return
	}

	h.render(w, r, http.StatusOK, "customer_detail", view{
		Title: customer.FirstName + " " + customer.LastName,
		Data:  detailData{Customer: customer, Addresses: addresses},
	})
}

func (h *Handler) EditCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	customer, err := h.API.GetCustomer(r.Context(), id)
	if err != nil {
		h.pageError(w, r, "Edit customer", err)
		return
	}

	h.render(w, r, http.StatusOK, "customer_form", view{
		Title: "Edit customer",
		Data: customerFormData{
			Action:    "/customers/" + strconv.Itoa(id) + "/edit",
			CancelURL: "/customers/" + strconv.Itoa(id),
			Input: model.CustomerInput{
				FirstName:   customer.FirstName,
				LastName:    customer.LastName,
				PhoneNumber: customer.PhoneNumber,
			},
		},
	})
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	in := customerFromForm(r)
	form := customerFormData{Action: detailURL + "/edit", CancelURL: detailURL, Input: in}

	if form.FieldErrors = validation.Fields(in); form.FieldErrors != nil {
		form.FormError = "Please fix the highlighted fields."
		h.render(w, r, http.StatusBadRequest, "customer_form", view{Title: "Edit customer", Data: form})
		return
	}

	if err := h.API.UpdateCustomer(r.Context(), id, in); err != nil {
		h.formFailure(w, r, "customer_form", "Edit customer", err, func(msg string) any {
			form.FormError = msg
			return form
		})
		return
	}

	redirectWithFlash(w, r, detailURL, "success", "Customer updated successfully")
}

func (h *Handler) ConfirmDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	customer, err := h.API.GetCustomer(r.Context(), id)
	if err != nil {
		h.pageError(w, r, "Delete customer", err)
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	h.render(w, r, http.StatusOK, "confirm_delete", view{
		Title: "Delete customer",
		Data: confirmData{
			Subject:   customer.FirstName + " " + customer.LastName + " and all of their addresses",
			Action:    detailURL + "/delete",
			CancelURL: detailURL,
		},
	})
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	if err := h.API.DeleteCustomer(r.Context(), id); err != nil {
		if r.Context().Err() != nil {
			return
		}
		redirectWithFlash(w, r, "/customers", "error", "Failed to delete customer: "+errorMessage(err))
		return
	}

	redirectWithFlash(w, r, "/customers", "success", "Customer deleted successfully")
}

// formFailure re-renders a form with the API's rejection as the aggregate error
func (h *Handler) formFailure(w http.ResponseWriter, r *http.Request, page, title string, err error, withError func(string) any) {
	if r.Context().Err() != nil {
		return
	}
	h.render(w, r, statusFor(err), page, view{Title: title, Data: withError(errorMessage(err))})
}

func customerFromForm(r *http.Request) model.CustomerInput {
	return validation.NormalizeCustomer(model.CustomerInput{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		PhoneNumber: r.PostFormValue("phone_number"),
	})
}
