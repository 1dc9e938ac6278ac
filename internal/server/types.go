package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mquinn/chorewheel/internal/auth"
)

// registerValidations adds the custom `pin` rule to gin's validator
// engine. Safe to call more than once.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
			return auth.ValidPIN(fl.Field().String())
		})
	}
}

type rosterRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

type reorderRequest struct {
	// Pointers so position 0 satisfies required.
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type pinRequest struct {
	// Empty clears the PIN.
	PIN string `json:"pin" binding:"omitempty,pin"`
}

type authorizeRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=run unload"`
	PIN  string `json:"pin"`
}

type completeRequest struct {
	Kind string `json:"kind" binding:"required,oneof=afternoon night"`

	// Either a grant (from /api/authorize) or an inline PIN per
	// identity. With a grant the identity comes from the token.
	RanBy    string `json:"ran_by"`
	RunPIN   string `json:"run_pin"`
	RunGrant string `json:"run_grant"`

	UnloadedBy  string `json:"unloaded_by"`
	UnloadPIN   string `json:"unload_pin"`
	UnloadGrant string `json:"unload_grant"`
}

type claimRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=afternoon night"`
	Role  string `json:"role" binding:"required,oneof=run unload"`
	Name  string `json:"name"`
	PIN   string `json:"pin"`
	Grant string `json:"grant"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}
