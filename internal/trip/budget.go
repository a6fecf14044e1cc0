package trip

import "sort"

type Summary struct {
	TotalCost  float64    `json:"total_cost"`
	Budget     float64    `json:"budget"`
	Currency   string     `json:"currency"`
	Percentage float64    `json:"percentage"`
	OverBudget bool       `json:"over_budget"`
	PerStop    []StopCost `json:"per_stop"`
	PerType    []TypeCost `json:"per_type"`
}

type StopCost struct {
	StopID string  `json:"stop_id"`
	City   string  `json:"city"`
	Cost   float64 `json:"cost"`
}

type TypeCost struct {
	Type string  `json:"type"`
	Cost float64 `json:"cost"`
}

// Summarize derives the budget numbers for one trip. Pure: no storage
// access, no side effects.
func Summarize(detail TripDetail) Summary {
	sum := Summary{
		Currency: "USD",
		PerStop:  []StopCost{},
		PerType:  []TypeCost{},
	}
	if detail.Budget != nil {
		sum.Budget = detail.Budget.TotalBudget
		if detail.Budget.Currency != "" {
			sum.Currency = detail.Budget.Currency
		}
	}

	typeOrder := map[string]int{}
	for _, stop := range detail.Stops {
		stopCost := 0.0
		for _, act := range stop.Activities {
			stopCost += act.Cost
			if i, ok := typeOrder[act.Type]; ok {
				sum.PerType[i].Cost += act.Cost
			} else {
				typeOrder[act.Type] = len(sum.PerType)
				sum.PerType = append(sum.PerType, TypeCost{Type: act.Type, Cost: act.Cost})
			}
		}
		sum.TotalCost += stopCost
		if stopCost > 0 {
			sum.PerStop = append(sum.PerStop, StopCost{StopID: stop.ID, City: stop.City, Cost: stopCost})
		}
	}

	// descending by cost, ties keep first-encountered order
	sort.SliceStable(sum.PerType, func(i, j int) bool {
		return sum.PerType[i].Cost > sum.PerType[j].Cost
	})

	if sum.Budget > 0 {
		sum.Percentage = sum.TotalCost / sum.Budget * 100
		sum.OverBudget = sum.TotalCost > sum.Budget
	}
	return sum
}
