package dto

// LocationBalanceDTO saldo de un producto en una ubicación.
type LocationBalanceDTO struct {
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// ProductStockDTO saldos de un producto, indexados por ID de ubicación.
type ProductStockDTO struct {
	Name      string                       `json:"name"`
	SKU       string                       `json:"sku"`
	Locations map[int64]LocationBalanceDTO `json:"locations"`
}

// StockReportResponse reporte completo: ID de producto -> saldos por ubicación.
type StockReportResponse map[int64]ProductStockDTO

// BalanceResponse saldo de un único par (producto, ubicación).
type BalanceResponse struct {
	ProductID  int64 `json:"product_id"`
	LocationID int64 `json:"location_id"`
	Balance    int64 `json:"balance"`
}

// DashboardSummaryDTO contadores del tablero principal.
type DashboardSummaryDTO struct {
	ProductsCount  int64 `json:"products_count"`
	LocationsCount int64 `json:"locations_count"`
	MovementsCount int64 `json:"movements_count"`
}
