package seed

import (
	"math/rand/v2"

	"orgchart/internal/models"
)

// newManagerProbability is the chance that a new employee becomes
// eligible to receive subordinates.
const newManagerProbability = 0.2

// Generate builds a single tree of count employees rooted at id 1. Each
// employee after the root reports to a manager drawn uniformly from the
// pool of eligible managers, so every edge points to a smaller id.
//
// Only structure decides the shape: the same structure stream yields the
// same (id, manager) pairs whatever names returns.
func Generate(count int, structure *rand.Rand, names NameSource) ([]models.Employee, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	employees := make([]models.Employee, 0, count)
	employees = append(employees, models.Employee{ID: 1, Name: names.Name()})

	pool := []int64{1}
	for id := int64(2); id <= int64(count); id++ {
		manager := pool[structure.IntN(len(pool))]
		employees = append(employees, models.Employee{
			ID:        id,
			ManagerID: models.ManagerRef(manager),
			Name:      names.Name(),
		})
		if structure.Float64() < newManagerProbability {
			pool = append(pool, id)
		}
	}
	return employees, nil
}
