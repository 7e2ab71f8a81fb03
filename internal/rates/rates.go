// Package rates calcula el desglose de costos de un analisis de precio
// unitario. Es puro: mismos insumos, mismo resultado.
package rates

// CostInput son los insumos de una linea de analisis. Los porcentajes son
// porcentajes (10 = 10%), no fracciones. Un campo ausente vale cero.
type CostInput struct {
	MaterialCost    float64 `json:"materialCost"`
	LaborCost       float64 `json:"laborCost"`
	EquipmentCost   float64 `json:"equipmentCost"`
	OverheadPercent float64 `json:"overheadPercent"`
	ProfitPercent   float64 `json:"profitPercent"`
}

// CostBreakdown es el resultado derivado. Nunca se usa como fuente de
// verdad almacenada; se recalcula cuando cambia cualquier insumo.
type CostBreakdown struct {
	Subtotal       float64 `json:"subtotal"`
	OverheadAmount float64 `json:"overheadAmount"`
	ProfitAmount   float64 `json:"profitAmount"`
	TotalRate      float64 `json:"totalRate"`
}

// Aggregate deriva el desglose completo a partir de los insumos.
func Aggregate(in CostInput) CostBreakdown {
	subtotal := in.MaterialCost + in.LaborCost + in.EquipmentCost
	overhead := subtotal * in.OverheadPercent / 100
	profit := subtotal * in.ProfitPercent / 100
	return CostBreakdown{
		Subtotal:       subtotal,
		OverheadAmount: overhead,
		ProfitAmount:   profit,
		TotalRate:      subtotal + overhead + profit,
	}
}

// BoqLine deriva la tarifa total y el importe de una linea BOQ.
func BoqLine(quantity, materialRate, laborRate, equipmentRate float64) (totalRate, amount float64) {
	totalRate = materialRate + laborRate + equipmentRate
	amount = totalRate * quantity
	return totalRate, amount
}
