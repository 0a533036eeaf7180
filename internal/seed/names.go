package seed

import (
	"math/rand/v2"
	"time"
)

var firstNames = [...]string{
	"John", "Jane", "Michael", "Emily", "David", "Sophia", "James", "Olivia",
	"Robert", "Ava", "William", "Isabella", "Richard", "Mia", "Joseph", "Charlotte",
	"Thomas", "Amelia", "Charles", "Harper", "Christopher", "Evelyn", "Daniel", "Abigail",
	"Matthew", "Elizabeth", "Anthony", "Emma", "Steven", "Ella", "Paul", "Scarlett",
	"Andrew", "Madison", "Joshua", "Zoe", "Kenneth", "Lily", "Kevin", "Kate",
	"Brian", "Victoria", "Edward", "Grace", "Ronald", "Nora", "Timothy", "Chloe",
}

var lastNames = [...]string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Perez", "Martin", "Lee", "White", "Harris",
	"Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Young", "Walker", "Hall",
	"Allen", "King", "Scott", "Green", "Baker", "Adams", "Nelson", "Carter",
	"Roberts", "Phillips", "Campbell", "Parker", "Evans", "Edwards", "Collins", "Reeves",
}

// NameSource produces display names for generated employees.
type NameSource interface {
	Name() string
}

// RandomNames draws "First Last" pairs from fixed lists. It is not safe
// for concurrent use.
type RandomNames struct {
	r *rand.Rand
}

// NewRandomNames returns a NameSource backed by r. A nil r uses a stream
// seeded from the clock, so names differ between runs.
func NewRandomNames(r *rand.Rand) *RandomNames {
	if r == nil {
		now := uint64(time.Now().UnixNano())
		r = rand.New(rand.NewPCG(now, now>>1))
	}
	return &RandomNames{r: r}
}

// Name returns a random first name followed by a random last name.
func (n *RandomNames) Name() string {
	first := firstNames[n.r.IntN(len(firstNames))]
	last := lastNames[n.r.IntN(len(lastNames))]
	return first + " " + last
}
