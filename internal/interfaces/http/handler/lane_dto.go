package handler

// SelectClientRequest attaches a registered client to a lane
type SelectClientRequest struct {
	ClientID int64 `json:"client_id" binding:"required,gt=0"`
}

// AddItemRequest carries a scanned or typed search token
type AddItemRequest struct {
	Token string `json:"token" binding:"required"`
}
