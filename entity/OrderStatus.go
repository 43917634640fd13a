package entity

type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusAccepted OrderStatus = "accepted"
	StatusDelivery OrderStatus = "delivery"
	StatusDone     OrderStatus = "done"
)

var statusFlow = []OrderStatus{StatusPending, StatusAccepted, StatusDelivery, StatusDone}

func (s OrderStatus) Valid() bool {
	for _, v := range statusFlow {
		if v == s {
			return true
		}
	}
	return false
}

// Next returns the only state s may move to. ok is false for done and unknown values.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, v := range statusFlow {
		if v == s && i+1 < len(statusFlow) {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "Delivery"
	OrderTypePickUp   OrderType = "Pick Up"
	OrderTypeEatIn    OrderType = "Eat In"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDelivery, OrderTypePickUp, OrderTypeEatIn:
		return true
	}
	return false
}
