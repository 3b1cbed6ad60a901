package payments

import (
	"fmt"
	"os"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"salonflow-backend/internal/models"
)

// Checkout is the payment link handed to the client once an order closes.
type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Gateway is the boundary to the external payment provider. Settlement
// itself stays outside the core; the webhook reports the outcome back.
type Gateway interface {
	CreateCheckout(order *models.Order, client *models.Client) (*Checkout, error)
}

// MidtransGateway issues snap checkout tokens.
type MidtransGateway struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string) *MidtransGateway {
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.client.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateCheckout(order *models.Order, client *models.Client) (*Checkout, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderNo,
			GrossAmt: int64(order.FinalValue),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: client.Name,
			Email: client.Email,
			Phone: client.Phone,
		},
	}

	items := make([]midtrans.ItemDetails, 0, len(order.Items))
	for _, item := range order.Items {
		name := "Product"
		id := fmt.Sprintf("ITEM-%d", item.ID)
		if item.Kind == models.ItemService {
			name = "Service"
		}
		items = append(items, midtrans.ItemDetails{
			ID:    id,
			Name:  name,
			Price: int64(item.Price),
			Qty:   int32(item.Quantity),
		})
	}
	req.Items = &items

	resp, errSnap := g.client.CreateTransaction(req)
	if errSnap != nil {
		return nil, fmt.Errorf("midtrans snap: %s", errSnap.GetMessage())
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// Notification is the subset of the gateway's webhook payload the backend
// cares about.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
}

// Settled reports whether the notification means the money actually arrived.
func (n Notification) Settled() bool {
	switch n.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return n.FraudStatus == "accept"
	}
	return false
}
