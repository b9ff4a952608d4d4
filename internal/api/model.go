package api

// Cart

type CartItem struct {
	ProductID ID      `json:"producto_id"`
	Name      string  `json:"nombre"`
	UnitPrice Amount  `json:"precio_unitario"`
	Quantity  FlexInt `json:"cantidad"`
}

type cartResponse struct {
	Items []CartItem `json:"items"`
}

type cartRequest struct {
	UserID    ID       `json:"usuario_id"`
	ProductID ID       `json:"producto_id,omitempty"`
	Quantity  *FlexInt `json:"cantidad,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Orders

type Order struct {
	ID    ID         `json:"id"`
	Date  Timestamp  `json:"fecha"`
	Total Amount     `json:"total"`
	Items []CartItem `json:"items"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

type RefundRequest struct {
	OrderID ID     `json:"pedido_id"`
	Reason  string `json:"motivo"`
	Status  string `json:"estado"`
}

// Auth

type User struct {
	ID     ID     `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	RoleID ID     `json:"rol_id,omitempty"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   int    `json:"rol_id"`
}

// Catalog

type Product struct {
	ID          ID     `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Price       Amount `json:"precio"`
	CategoryID  ID     `json:"categoria_id"`
}

type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"nombre"`
}

type InventoryLevel struct {
	ID        ID      `json:"id"`
	Name      string  `json:"nombre"`
	Available FlexInt `json:"cantidad_disponible"`
}

type RawMaterial struct {
	ID   ID     `json:"id"`
	Name string `json:"nombre"`
}

type Movement struct {
	ID    ID        `json:"id"`
	Type  string    `json:"tipo_movimiento"`
	Date  Timestamp `json:"fecha"`
	Notes string    `json:"observaciones"`
}
