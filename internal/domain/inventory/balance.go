// Package inventory contiene los servicios de dominio puros sobre el libro de movimientos.
// No accede a almacenamiento: recibe una instantánea de productos, ubicaciones y movimientos.
package inventory

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

type pairKey struct {
	productID  int64
	locationID int64
}

// ComputeStockReport deriva el saldo de cada par (producto, ubicación):
//
//	saldo = Σ qty (to = ubicación) − Σ qty (from = ubicación)
//
// Se recorre el libro una sola vez y luego se completa el producto cartesiano con 0
// para los pares sin movimientos. El saldo puede quedar negativo: no se valida stock disponible.
// Movimientos que referencian IDs fuera de la instantánea se ignoran.
func ComputeStockReport(products []*entity.Product, locations []*entity.Location, movements []*entity.ProductMovement) entity.StockReport {
	net := netByPair(movements)

	report := make(entity.StockReport, len(products))
	for _, p := range products {
		ps := entity.ProductStock{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Locations: make(map[int64]entity.LocationBalance, len(locations)),
		}
		for _, l := range locations {
			ps.Locations[l.ID] = entity.LocationBalance{
				LocationID: l.ID,
				Name:       l.Name,
				Balance:    net[pairKey{p.ID, l.ID}],
			}
		}
		report[p.ID] = ps
	}
	return report
}

// BalanceOf calcula el saldo de un único par (producto, ubicación).
func BalanceOf(movements []*entity.ProductMovement, productID, locationID int64) int64 {
	var balance int64
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		if m.ToLocationID != nil && *m.ToLocationID == locationID {
			balance += m.Quantity
		}
		if m.FromLocationID != nil && *m.FromLocationID == locationID {
			balance -= m.Quantity
		}
	}
	return balance
}

// NetExternalFlow devuelve entradas puras menos salidas puras de un producto.
// Los traslados no cambian el total, así que coincide con la suma de sus saldos.
func NetExternalFlow(movements []*entity.ProductMovement, productID int64) int64 {
	var flow int64
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		switch m.Kind() {
		case entity.MovementTypeIN:
			flow += m.Quantity
		case entity.MovementTypeOUT:
			flow -= m.Quantity
		}
	}
	return flow
}

func netByPair(movements []*entity.ProductMovement) map[pairKey]int64 {
	net := make(map[pairKey]int64)
	for _, m := range movements {
		if m.ToLocationID != nil {
			net[pairKey{m.ProductID, *m.ToLocationID}] += m.Quantity
		}
		if m.FromLocationID != nil {
			net[pairKey{m.ProductID, *m.FromLocationID}] -= m.Quantity
		}
	}
	return net
}
