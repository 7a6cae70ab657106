package notification

type NotificationResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Message       string `json:"message"`
	RecipientRole string `json:"recipient_role"`
	RecipientID   string `json:"recipient_id"`
	ReferenceID   string `json:"reference_id"`
	Seen          bool   `json:"seen"`
	CreatedAt     string `json:"created_at"`
}

type UnseenCountResponse struct {
	Count int64 `json:"count"`
}
