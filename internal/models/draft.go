package models

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalidDraft = errors.New("invalid item draft")

// Upload is a media file attached to a create or update request.
type Upload struct {
	Name        string `validate:"required"`
	ContentType string
	Content     io.Reader `validate:"required"`
}

// Draft is the write payload for creating or updating an item.
// Extra carries variant specific scalar fields such as mount or category.
type Draft struct {
	Brand          string          `validate:"required,max=120"`
	Model          string          `validate:"required,max=120"`
	Variant        string          `validate:"max=120"`
	SerialNumber   string          `validate:"max=120"`
	BaseDailyRate  decimal.Decimal `validate:"gt=0"`
	EstimatedValue decimal.Decimal `validate:"gte=0"`
	DepositPercent decimal.Decimal `validate:"gte=0,lte=100"`
	MinDeposit     decimal.Decimal `validate:"gte=0"`
	MaxDeposit     decimal.Decimal `validate:"gte=0"`
	Specs          string          `validate:"omitempty,json"`
	IsAvailable    bool
	Extra          map[string]string
	Files          []Upload `validate:"dive"`
	RemoveMediaIDs []string `validate:"dive,required"`
}

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})

	return validate
}

// Validate checks the draft before it is sent to the remote service.
func (d Draft) Validate() error {
	if err := draftValidator().Struct(d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}

	if !d.MaxDeposit.IsZero() && d.MaxDeposit.LessThan(d.MinDeposit) {
		return fmt.Errorf("%w: max deposit %s is below min deposit %s", ErrInvalidDraft, d.MaxDeposit, d.MinDeposit)
	}

	return nil
}

// FormFields flattens the scalar part of the draft into multipart form fields.
func (d Draft) FormFields() map[string]string {
	fields := map[string]string{
		"brand":             d.Brand,
		"model":             d.Model,
		"baseDailyRate":     d.BaseDailyRate.String(),
		"estimatedValue":    d.EstimatedValue.String(),
		"depositPercentage": d.DepositPercent.String(),
		"minDeposit":        d.MinDeposit.String(),
		"maxDeposit":        d.MaxDeposit.String(),
		"isAvailable":       strconv.FormatBool(d.IsAvailable),
	}

	optional := map[string]string{
		"variant":      d.Variant,
		"serialNumber": d.SerialNumber,
		"specs":        d.Specs,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}

	for k, v := range d.Extra {
		fields[k] = v
	}

	return fields
}
