package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"example.com/logistics/services/odv/internal/model"
)

// valorFromRequest builds an invoice line item, parsing the decimal
// amounts. Empty amounts default to zero.
func valorFromRequest(servicioID uint, req *AddValorRequest) (*model.Valor, error) {
	costo := decimal.Zero
	venta := decimal.Zero
	var err error

	if req.Costo != "" {
		costo, err = decimal.NewFromString(req.Costo)
		if err != nil {
			return nil, fmt.Errorf("costo inválido %q: %w", req.Costo, err)
		}
	}
	if req.Venta != "" {
		venta, err = decimal.NewFromString(req.Venta)
		if err != nil {
			return nil, fmt.Errorf("venta inválida %q: %w", req.Venta, err)
		}
	}

	return &model.Valor{
		ServicioID:    servicioID,
		Concepto:      req.Concepto,
		Costo:         costo,
		Venta:         venta,
		FechaEmision:  req.FechaEmision,
		Tipo:          req.Tipo,
		DescuentoNota: req.DescuentoNota,
	}, nil
}
