package pesapal

// IPN is Pesapal's webhook notification. Depending on merchant
// configuration it arrives as a JSON POST or as a GET with the same three
// fields in the query string.
type IPN struct {
	OrderTrackingID        string `json:"OrderTrackingId" query:"OrderTrackingId"`
	OrderMerchantReference string `json:"OrderMerchantReference" query:"OrderMerchantReference"`
	OrderNotificationType  string `json:"OrderNotificationType" query:"OrderNotificationType"`
}

// Validate returns the structural problems with the notification, if any.
func (n *IPN) Validate() []string {
	var reasons []string
	if n.OrderTrackingID == "" {
		reasons = append(reasons, "OrderTrackingId is required")
	}
	if n.OrderMerchantReference == "" {
		reasons = append(reasons, "OrderMerchantReference is required")
	}
	if n.OrderNotificationType == "" {
		reasons = append(reasons, "OrderNotificationType is required")
	}
	return reasons
}

// Ack is the response body Pesapal expects back from the IPN endpoint.
type Ack struct {
	Message                string `json:"message"`
	OrderNotificationType  string `json:"orderNotificationType"`
	OrderTrackingID        string `json:"orderTrackingId"`
	OrderMerchantReference string `json:"orderMerchantReference"`
	Status                 int    `json:"status"`
}

func (n *IPN) Ack(message string) Ack {
	return Ack{
		Message:                message,
		OrderNotificationType:  n.OrderNotificationType,
		OrderTrackingID:        n.OrderTrackingID,
		OrderMerchantReference: n.OrderMerchantReference,
		Status:                 200,
	}
}
