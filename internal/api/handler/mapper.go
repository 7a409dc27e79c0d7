package handler

import (
	"github.com/99minutos/order-service/internal/core/ports"
)

// --- Request → Service input ---

func toCreateOrderInput(req createOrderRequest) ports.CreateOrderInput {
	items := make([]ports.OrderItemInput, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, ports.OrderItemInput{
			ProductID: p.ID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}
	return ports.CreateOrderInput{Items: items, TotalPrice: req.TotalPrice}
}

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
}

func toPaymentInput(req paymentRequest) ports.RecordPaymentInput {
	return ports.RecordPaymentInput{
		Amount:        req.Amount,
		Method:        req.Method,
		TransactionID: req.TransactionID,
	}
}
