package usecase

import (
	"slices"
	"sort"
	"strings"

	"online-panthi/services/course/internal/entity"
)

var (
	levelSynonyms = map[string][]string{
		entity.LevelBeginner: {"beginner", "biginner"},
		entity.LevelOrdinary: {"ordinary", "ordinery"},
		entity.LevelAdvanced: {"advanced"},
	}

	streamKeywords = map[string][]string{
		entity.StreamTech:     {"tech", "ict", "it", "technology", "computer", "cs"},
		entity.StreamCommerce: {"commerce", "business", "account", "econ", "economics"},
		entity.StreamScience:  {"science", "biology", "physics", "chemistry"},
		entity.StreamMaths:    {"math", "maths", "mathematics"},
		entity.StreamArts:     {"arts", "art", "history", "languages"},
	}
)

func pick(value string, allowed []string, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if slices.Contains(allowed, v) {
		return v
	}
	return fallback
}

// ParseCatalogQuery lowercases the filters and replaces unknown values with the defaults.
func ParseCatalogQuery(search, level, stream, price, sortBy string) entity.CatalogQuery {
	return entity.CatalogQuery{
		Search: strings.TrimSpace(search),
		Level: pick(level, []string{
			entity.LevelAll, entity.LevelBeginner, entity.LevelOrdinary, entity.LevelAdvanced,
		}, entity.LevelAll),
		Stream: pick(stream, []string{
			entity.StreamAll, entity.StreamTech, entity.StreamCommerce, entity.StreamScience,
			entity.StreamMaths, entity.StreamArts, entity.StreamEtc,
		}, entity.StreamAll),
		Price: pick(price, []string{entity.PriceAll, entity.PriceFree, entity.PricePaid}, entity.PriceFree),
		Sort:  pick(sortBy, []string{entity.SortPopularity, entity.SortMostRated}, entity.SortPopularity),
	}
}

func matchesSearch(c *entity.Course, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.InstructorName), q) ||
		strings.Contains(strings.ToLower(c.Description), q)
}

func matchesLevel(c *entity.Course, level string) bool {
	if level == entity.LevelAll {
		return true
	}
	return slices.Contains(levelSynonyms[level], strings.ToLower(c.Level))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// StreamOf returns the stream bucket a category falls into. Buckets match on substrings, so
// the first bucket in tech, commerce, science, maths, arts order wins.
func StreamOf(category string) string {
	cat := strings.ToLower(category)
	for _, s := range []string{entity.StreamTech, entity.StreamCommerce, entity.StreamScience, entity.StreamMaths, entity.StreamArts} {
		if containsAny(cat, streamKeywords[s]) {
			return s
		}
	}
	return entity.StreamEtc
}

func matchesStream(c *entity.Course, stream string) bool {
	cat := strings.ToLower(c.Category)
	switch stream {
	case entity.StreamAll:
		return true
	case entity.StreamEtc:
		for _, keywords := range streamKeywords {
			if containsAny(cat, keywords) {
				return false
			}
		}
		return true
	default:
		return containsAny(cat, streamKeywords[stream])
	}
}

func matchesPrice(c *entity.Course, price string) bool {
	switch price {
	case entity.PriceFree:
		return !c.IsPaid
	case entity.PricePaid:
		return c.IsPaid
	default:
		return true
	}
}

// ApplyCatalog filters courses by q and returns them in the requested order. The input order
// is kept among ties, so it should already be recommended first, newest first.
func ApplyCatalog(courses []*entity.Course, q entity.CatalogQuery) []*entity.Course {
	search := strings.ToLower(q.Search)

	out := make([]*entity.Course, 0, len(courses))
	for _, c := range courses {
		if matchesSearch(c, search) && matchesLevel(c, q.Level) && matchesStream(c, q.Stream) && matchesPrice(c, q.Price) {
			out = append(out, c)
		}
	}

	switch q.Sort {
	case entity.SortMostRated:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].StudentsEnrolled > out[j].StudentsEnrolled })
	}
	return out
}
