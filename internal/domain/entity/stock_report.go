package entity

import "sort"

// LocationBalance saldo neto de un producto en una ubicación (puede ser negativo).
type LocationBalance struct {
	LocationID int64
	Name       string
	Balance    int64
}

// ProductStock saldos de un producto en todas las ubicaciones.
type ProductStock struct {
	ProductID int64
	Name      string
	SKU       string
	Locations map[int64]LocationBalance
}

// StockReport producto -> ubicación -> saldo. Derivado de los movimientos; nunca se persiste.
type StockReport map[int64]ProductStock

// Balance devuelve el saldo del par (producto, ubicación); 0 si el par no figura.
func (r StockReport) Balance(productID, locationID int64) int64 {
	p, ok := r[productID]
	if !ok {
		return 0
	}
	return p.Locations[locationID].Balance
}

// Total suma los saldos de un producto en todas las ubicaciones.
func (r StockReport) Total(productID int64) int64 {
	var total int64
	for _, lb := range r[productID].Locations {
		total += lb.Balance
	}
	return total
}

// ProductIDs devuelve los IDs de producto en orden ascendente (orden de alta).
func (r StockReport) ProductIDs() []int64 {
	ids := make([]int64, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LocationIDs devuelve los IDs de ubicación del producto en orden ascendente.
func (p ProductStock) LocationIDs() []int64 {
	ids := make([]int64, 0, len(p.Locations))
	for id := range p.Locations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
