package usecase

import (
	"testing"
	"time"

	"online-panthi/services/course/internal/entity"

	"github.com/stretchr/testify/assert"
)

func ids(courses []*entity.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.ID)
	}
	return out
}

func sampleCatalog() []*entity.Course {
	now := time.Now()
	return []*entity.Course{
		{ID: "ict", Name: "Intro to Programming", Category: "ICT", Level: "Beginner", InstructorName: "Nimal Perera", StudentsEnrolled: 10, Rate: 4.1, CreatedAt: now},
		{ID: "acc", Name: "Accounting Basics", Category: "Commerce", Level: "Ordinary", Description: "Ledgers and journals", StudentsEnrolled: 50, Rate: 3.9, IsPaid: true, CreatedAt: now},
		{ID: "bio", Name: "Cell Biology", Category: "Science", Level: "biginner", StudentsEnrolled: 10, Rate: 4.8, CreatedAt: now},
		{ID: "alg", Name: "Algebra", Category: "Math", Level: "Advanced", StudentsEnrolled: 30, Rate: 4.8, CreatedAt: now},
		{ID: "misc", Name: "Study Skills", Category: "Other", Level: "ordinery", StudentsEnrolled: 5, CreatedAt: now},
	}
}

func TestParseCatalogQuery_Defaults(t *testing.T) {
	q := ParseCatalogQuery("", "", "", "", "")
	assert.Equal(t, entity.CatalogQuery{
		Level:  entity.LevelAll,
		Stream: entity.StreamAll,
		Price:  entity.PriceFree,
		Sort:   entity.SortPopularity,
	}, q)
}

func TestParseCatalogQuery_UnknownValuesFallBack(t *testing.T) {
	q := ParseCatalogQuery("  algebra ", "Expert", "music", "cheap", "newest")
	assert.Equal(t, "algebra", q.Search)
	assert.Equal(t, entity.LevelAll, q.Level)
	assert.Equal(t, entity.StreamAll, q.Stream)
	assert.Equal(t, entity.PriceFree, q.Price)
	assert.Equal(t, entity.SortPopularity, q.Sort)
}

func TestParseCatalogQuery_CaseInsensitive(t *testing.T) {
	q := ParseCatalogQuery("", "ADVANCED", "Tech", "PAID", "Most_Rated")
	assert.Equal(t, entity.LevelAdvanced, q.Level)
	assert.Equal(t, entity.StreamTech, q.Stream)
	assert.Equal(t, entity.PricePaid, q.Price)
	assert.Equal(t, entity.SortMostRated, q.Sort)
}

func TestApplyCatalog_DefaultShowsFreeByPopularity(t *testing.T) {
	got := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "", "", "", ""))
	// ict and bio tie on enrolment and keep their input order
	assert.Equal(t, []string{"alg", "ict", "bio", "misc"}, ids(got))
}

func TestApplyCatalog_Search(t *testing.T) {
	all := ParseCatalogQuery("", "", "", "all", "")

	assert.Equal(t, []string{"ict"}, ids(ApplyCatalog(sampleCatalog(), withSearch(all, "NIMAL"))))
	assert.Equal(t, []string{"acc"}, ids(ApplyCatalog(sampleCatalog(), withSearch(all, "journals"))))
	assert.Empty(t, ApplyCatalog(sampleCatalog(), withSearch(all, "quantum")))
}

func withSearch(q entity.CatalogQuery, s string) entity.CatalogQuery {
	q.Search = s
	return q
}

func TestApplyCatalog_LevelSynonyms(t *testing.T) {
	beginner := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "beginner", "", "all", ""))
	assert.ElementsMatch(t, []string{"ict", "bio"}, ids(beginner))

	ordinary := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "ordinary", "", "all", ""))
	assert.ElementsMatch(t, []string{"acc", "misc"}, ids(ordinary))

	advanced := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "advanced", "", "all", ""))
	assert.Equal(t, []string{"alg"}, ids(advanced))
}

func TestApplyCatalog_StreamBuckets(t *testing.T) {
	cases := map[string][]string{
		entity.StreamTech:     {"ict"},
		entity.StreamCommerce: {"acc"},
		entity.StreamScience:  {"bio"},
		entity.StreamMaths:    {"alg"},
		entity.StreamArts:     nil,
		entity.StreamEtc:      {"misc"},
	}
	for stream, want := range cases {
		t.Run(stream, func(t *testing.T) {
			got := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "", stream, "all", ""))
			assert.ElementsMatch(t, want, ids(got))
		})
	}
}

func TestApplyCatalog_Price(t *testing.T) {
	paid := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "", "", "paid", ""))
	assert.Equal(t, []string{"acc"}, ids(paid))

	all := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "", "", "all", ""))
	assert.Len(t, all, 5)
}

func TestApplyCatalog_MostRatedIsStable(t *testing.T) {
	got := ApplyCatalog(sampleCatalog(), ParseCatalogQuery("", "", "", "all", "most_rated"))
	assert.Equal(t, []string{"bio", "alg", "ict", "acc", "misc"}, ids(got))
}

func TestApplyCatalog_DoesNotReorderInput(t *testing.T) {
	in := sampleCatalog()
	_ = ApplyCatalog(in, ParseCatalogQuery("", "", "", "all", "most_rated"))
	assert.Equal(t, []string{"ict", "acc", "bio", "alg", "misc"}, ids(in))
}

func TestStreamOf(t *testing.T) {
	assert.Equal(t, entity.StreamTech, StreamOf("ICT"))
	assert.Equal(t, entity.StreamCommerce, StreamOf("Business Studies"))
	assert.Equal(t, entity.StreamMaths, StreamOf("Maths"))
	// substring buckets: "cs" in "mathematics" lands in tech first
	assert.Equal(t, entity.StreamTech, StreamOf("Mathematics"))
	assert.Equal(t, entity.StreamArts, StreamOf("History"))
	assert.Equal(t, entity.StreamEtc, StreamOf("Other"))
	assert.Equal(t, entity.StreamEtc, StreamOf(""))
}
