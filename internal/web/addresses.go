package web

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/customer-records/internal/model"
	"github.com/unclebandit/customer-records/internal/validation"
)

type addressFormData struct {
	Action      string
	CancelURL   string
	Input       model.AddressInput
	FieldErrors map[string]string
	FormError   string
}

// fetchCustomerWithAddresses issues both API calls concurrently.
// The first failure cancels the other.
func (h *Handler) fetchCustomerWithAddresses(r *http.Request, id int) (*model.Customer, []model.Address, error) {
	var (
		customer  *model.Customer
		addresses []model.Address
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		customer, err = h.API.GetCustomer(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		addresses, err = h.API.ListAddresses(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return customer, addresses, nil
}

func (h *Handler) NewAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	h.render(w, r, http.StatusOK, "address_form", view{
		Title: "New address",
		Data:  addressFormData{Action: detailURL + "/addresses", CancelURL: detailURL},
	})
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	in := addressFromForm(r)
	form := addressFormData{Action: detailURL + "/addresses", CancelURL: detailURL, Input: in}

	if form.FieldErrors = validation.Fields(in); form.FieldErrors != nil {
		form.FormError = "Please fix the highlighted fields."
		h.render(w, r, http.StatusBadRequest, "address_form", view{Title: "New address", Data: form})
		return
	}

	if _, err := h.API.CreateAddress(r.Context(), id, in); err != nil {
		h.formFailure(w, r, "address_form", "New address", err, func(msg string) any {
			form.FormError = msg
			return form
		})
		return
	}

	redirectWithFlash(w, r, detailURL, "success", "Address created")
}

func (h *Handler) EditAddress(w http.ResponseWriter, r *http.Request) {
	id, addressID, ok := h.addressIDs(w, r)
	if !ok {
		return
	}

	a, err := h.API.GetAddress(r.Context(), id, addressID)
	if err != nil {
		h.pageError(w, r, "Edit address", err)
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	h.render(w, r, http.StatusOK, "address_form", view{
		Title: "Edit address",
		Data: addressFormData{
			Action:    detailURL + "/addresses/" + strconv.Itoa(addressID) + "/edit",
			CancelURL: detailURL,
			Input: model.AddressInput{
				AddressDetails: a.AddressDetails,
				City:           a.City,
				State:          a.State,
				PinCode:        a.PinCode,
			},
		},
	})
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, addressID, ok := h.addressIDs(w, r)
	if !ok {
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	in := addressFromForm(r)
	form := addressFormData{
		Action:    detailURL + "/addresses/" + strconv.Itoa(addressID) + "/edit",
		CancelURL: detailURL,
		Input:     in,
	}

	if form.FieldErrors = validation.Fields(in); form.FieldErrors != nil {
		form.FormError = "Please fix the highlighted fields."
		h.render(w, r, http.StatusBadRequest, "address_form", view{Title: "Edit address", Data: form})
		return
	}

	if err := h.API.UpdateAddress(r.Context(), id, addressID, in); err != nil {
		h.formFailure(w, r, "address_form", "Edit address", err, func(msg string) any {
			form.FormError = msg
			return form
		})
		return
	}

	redirectWithFlash(w, r, detailURL, "success", "Address updated successfully")
}

func (h *Handler) ConfirmDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, addressID, ok := h.addressIDs(w, r)
	if !ok {
		return
	}

	a, err := h.API.GetAddress(r.Context(), id, addressID)
	if err != nil {
		h.pageError(w, r, "Delete address", err)
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	h.render(w, r, http.StatusOK, "confirm_delete", view{
		Title: "Delete address",
		Data: confirmData{
			Subject:   a.AddressDetails + ", " + a.City,
			Action:    detailURL + "/addresses/" + strconv.Itoa(addressID) + "/delete",
			CancelURL: detailURL,
		},
	})
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, addressID, ok := h.addressIDs(w, r)
	if !ok {
		return
	}

	detailURL := "/customers/" + strconv.Itoa(id)
	if err := h.API.DeleteAddress(r.Context(), id, addressID); err != nil {
		if r.Context().Err() != nil {
			return
		}
		redirectWithFlash(w, r, detailURL, "error", "Failed to delete address: "+errorMessage(err))
		return
	}

	redirectWithFlash(w, r, detailURL, "success", "Address deleted")
}

func (h *Handler) addressIDs(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		h.badID(w, r, "customer")
		return 0, 0, false
	}
	addressID, ok := pathID(r, "addressId")
	if !ok {
		h.badID(w, r, "address")
		return 0, 0, false
	}
	return id, addressID, true
}

func addressFromForm(r *http.Request) model.AddressInput {
	return validation.NormalizeAddress(model.AddressInput{
		AddressDetails: r.PostFormValue("address_details"),
		City:           r.PostFormValue("city"),
		State:          r.PostFormValue("state"),
		PinCode:        r.PostFormValue("pin_code"),
	})
}
