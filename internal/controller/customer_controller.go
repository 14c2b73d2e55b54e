// internal/controller/customer_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

type listCustomersResponse struct {
	Message    string           `json:"message"`
	Data       []model.Customer `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := c.CustomerService.CreateCustomer(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{
		Message: "Customer created successfully",
		ID:      customer.ID,
	})
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters; malformed numbers fall back to defaults in the service
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := c.CustomerService.ListCustomers(r.Context(), model.CustomerFilter{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	})
	if err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}

	data := result.Customers
	if data == nil {
		data = []model.Customer{}
	}

	writeJSON(w, http.StatusOK, listCustomersResponse{
		Message:    "Customers retrieved successfully",
		Data:       data,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := c.CustomerService.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Message: "Customer retrieved successfully", Data: customer})
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var body model.CustomerInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := c.CustomerService.UpdateCustomer(r.Context(), id, body); err != nil {
		writeServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Customer updated successfully"})
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := c.CustomerService.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Customer deleted successfully"})
}
