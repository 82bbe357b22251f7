package topology

import (
	"math"
	"sort"

	"github.com/ecodyn/bioweb/internal/rates"
)

// AssignRoles maps web structure to metabolic roles: basal species are
// producers, and the given fraction of consumers, taken from the top
// trophic levels down, get vertebrate coefficients. A fraction of zero
// yields an all-invertebrate consumer set.
func AssignRoles(web [][]bool, vertebrateFraction float64) []rates.Role {
	s := len(web)
	roles := make([]rates.Role, s)

	consumers := make([]int, 0, s)
	for i := range web {
		basal := true
		for j := range web[i] {
			if web[i][j] {
				basal = false
				break
			}
		}
		if basal {
			roles[i] = rates.Producer
		} else {
			roles[i] = rates.Invertebrate
			consumers = append(consumers, i)
		}
	}

	if vertebrateFraction <= 0 || len(consumers) == 0 {
		return roles
	}
	if vertebrateFraction > 1 {
		vertebrateFraction = 1
	}

	tl := TrophicLevels(web)
	sort.SliceStable(consumers, func(a, b int) bool {
		return tl[consumers[a]] > tl[consumers[b]]
	})

	n := int(math.Ceil(vertebrateFraction * float64(len(consumers))))
	for _, i := range consumers[:n] {
		roles[i] = rates.Vertebrate
	}
	return roles
}
