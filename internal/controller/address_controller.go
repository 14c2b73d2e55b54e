package controller

import (
	"net/http"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/service"
)

// AddressController serves the addresses nested under /api/customers/{id}
type AddressController struct {
	AddressService *service.AddressService
}

func (c *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// An unknown customer surfaces here as a foreign-key violation from the store
	address, err := c.AddressService.CreateAddress(r.Context(), customerID, body)
	if err != nil {
		writeServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{Message: "Address created", ID: address.ID})
}

func (c *AddressController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	addresses, err := c.AddressService.ListAddresses(r.Context(), customerID)
	if err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}
	if addresses == nil {
		addresses = []model.Address{}
	}

	writeJSON(w, http.StatusOK, dataResponse{Message: "success", Data: addresses})
}

func (c *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, addressID, ok := addressPath(w, r)
	if !ok {
		return
	}

	var body model.AddressInput
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := c.AddressService.UpdateAddress(r.Context(), customerID, addressID, body); err != nil {
		writeServiceError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Address updated successfully"})
}

func (c *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	customerID, addressID, ok := addressPath(w, r)
	if !ok {
		return
	}

	if err := c.AddressService.DeleteAddress(r.Context(), customerID, addressID); err != nil {
		writeServiceError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Address deleted"})
}

func addressPath(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	customerID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return 0, 0, false
	}
	addressID, ok := pathID(r, "addressId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid address id")
		return 0, 0, false
	}
	return customerID, addressID, true
}
