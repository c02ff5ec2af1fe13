package providers

import (
	"github.com/gookit/validate"

	"bmac/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if v.Validate() {
		return nil
	}
	return v.Errors.OneError()
}
