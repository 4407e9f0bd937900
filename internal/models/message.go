package models

// NewMessage is an inquiry from a buyer to a seller, inserted into the
// messages table. Append-only: messages are never edited or deleted here.
type NewMessage struct {
	BuyerEmail string `json:"buyer_email"`
	BuyerName  string `json:"buyer_name"`
	Message    string `json:"message"`
	SellerID   string `json:"seller_id"`
}
