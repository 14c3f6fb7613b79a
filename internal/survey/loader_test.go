package survey_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/techpulse/internal/survey"
	"github.com/KaramelBytes/techpulse/internal/survey/surveytest"
)

func TestLoadSampleInvariants(t *testing.T) {
	path := surveytest.WriteFile(t, surveytest.Sample()...)
	tbl, err := survey.Load(path)
	require.NoError(t, err)
	require.Equal(t, surveytest.SampleRetained, tbl.Len())

	labels := map[string]bool{}
	for _, l := range survey.AgeGroupLabels() {
		labels[l] = true
	}
	for i := 0; i < tbl.Len(); i++ {
		r := tbl.Record(i)
		assert.Greater(t, r.Age, 16)
		assert.Less(t, r.Age, 100)
		assert.True(t, survey.IsGender(r.Gender), "gender %q", r.Gender)
		assert.True(t, labels[r.AgeGroup], "age group %q", r.AgeGroup)
		assert.Equal(t, survey.BucketAge(r.Age), r.AgeGroup)
		for _, c := range []string{survey.ColState, survey.ColWorkInterfere, survey.ColSelfEmployed} {
			v, ok := r.Value(c)
			require.True(t, ok)
			assert.False(t, v.Missing, "row %d column %s", i, c)
			assert.NotEmpty(t, v.Text)
		}
		assert.False(t, r.Timestamp.IsZero())
	}
}

func TestLoadDropsAgeOutsideDomain(t *testing.T) {
	tbl := surveytest.Table(t,
		surveytest.Row{Age: "15", Country: "Drop15"},
		surveytest.Row{Age: "16", Country: "Drop16"},
		surveytest.Row{Age: "17", Country: "Keep17"},
		surveytest.Row{Age: "99", Country: "Keep99"},
		surveytest.Row{Age: "100", Country: "Drop100"},
		surveytest.Row{Age: "NA", Country: "DropMissing"},
	)
	var got []string
	for i := 0; i < tbl.Len(); i++ {
		got = append(got, tbl.Record(i).Country)
	}
	assert.Equal(t, []string{"Keep17", "Keep99"}, got)
}

func TestLoadNormalizesGender(t *testing.T) {
	cases := map[string]string{
		"Cis Male":     survey.GenderMale,
		" MALE ":       survey.GenderMale,
		"Female (cis)": survey.GenderFemale,
		"Trans-female": survey.GenderTrans,
		"enby":         survey.GenderNonBinary,
		"xyz123":       survey.GenderOther,
		"NA":           survey.GenderOther,
		"kinda male?":  survey.GenderOther,
	}
	for raw, want := range cases {
		tbl := surveytest.Table(t, surveytest.Row{Gender: raw})
		require.Equal(t, 1, tbl.Len())
		assert.Equal(t, want, tbl.Record(0).Gender, "raw %q", raw)
	}
}

func TestLoadAgeBucketsAreRightClosed(t *testing.T) {
	cases := map[string]string{
		"17": "18-25", "25": "18-25", "26": "26-35", "35": "26-35", "36": "36-45",
		"45": "36-45", "46": "46-55", "55": "46-55", "56": "56+", "99": "56+",
	}
	for age, want := range cases {
		tbl := surveytest.Table(t, surveytest.Row{Age: age})
		require.Equal(t, 1, tbl.Len())
		assert.Equal(t, want, tbl.Record(0).AgeGroup, "age %s", age)
	}
}

func TestLoadFillsOnlyDesignatedColumns(t *testing.T) {
	tbl := surveytest.Table(t, surveytest.Row{State: "NA", WorkInterfere: "NA", SelfEmployed: "NA", Treatment: "NA", Comments: "NA"})
	require.Equal(t, 1, tbl.Len())
	r := tbl.Record(0)
	assert.Equal(t, survey.NotApplicable, r.State)
	assert.Equal(t, survey.NotApplicable, r.WorkInterfere)
	assert.Equal(t, survey.No, r.SelfEmployed)

	v, ok := r.Value(survey.ColTreatment)
	require.True(t, ok)
	assert.True(t, v.Missing)
	v, ok = r.Value("comments")
	require.True(t, ok)
	assert.True(t, v.Missing)
}

func TestLoadParsesTimestamp(t *testing.T) {
	tbl := surveytest.Table(t, surveytest.Row{Timestamp: "2014-08-27 11:35:12"})
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, time.Date(2014, 8, 27, 11, 35, 12, 0, time.UTC), tbl.Record(0).Timestamp)
}

func TestLoadErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		_, err := survey.Load(filepath.Join(t.TempDir(), "missing.csv"))
		var nf *survey.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("schema", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "s.csv")
		require.NoError(t, os.WriteFile(p, []byte("Timestamp,Age,Gender\n2014-08-27 11:29:31,30,Male\n"), 0o644))
		_, err := survey.Load(p)
		var se *survey.SchemaError
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Missing, survey.ColCountry)
		assert.NotContains(t, se.Missing, survey.ColAge)
	})

	t.Run("timestamp", func(t *testing.T) {
		p := surveytest.WriteFile(t, surveytest.Row{}, surveytest.Row{Timestamp: "yesterday-ish"})
		_, err := survey.Load(p)
		var pe *survey.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, survey.ColTimestamp, pe.Column)
		assert.Equal(t, 2, pe.Row)
	})

	t.Run("timestamp on dropped row is ignored", func(t *testing.T) {
		p := surveytest.WriteFile(t, surveytest.Row{}, surveytest.Row{Age: "12", Timestamp: "garbage"})
		tbl, err := survey.Load(p)
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("age", func(t *testing.T) {
		p := surveytest.WriteFile(t, surveytest.Row{Age: "thirty"})
		_, err := survey.Load(p)
		var pe *survey.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, survey.ColAge, pe.Column)
	})
}

func TestLoaderCachesBySourceIdentity(t *testing.T) {
	var events []survey.LoadEvent
	l := survey.NewLoader(survey.WithObserver(func(ev survey.LoadEvent) { events = append(events, ev) }))
	path := surveytest.WriteFile(t, surveytest.Sample()...)

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	require.Len(t, events, 2)
	assert.False(t, events[0].CacheHit)
	assert.True(t, events[1].CacheHit)

	// Rewrite with different content and a later mtime.
	require.NoError(t, os.WriteFile(path, []byte(surveytest.CSV(surveytest.Row{})), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))
	third, err := l.Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), third.ID())
	assert.Equal(t, 1, third.Len())

	l.Invalidate(path)
	assert.False(t, l.Cached(path))
	fourth, err := l.Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, third.ID(), fourth.ID())

	l.Reset()
	assert.False(t, l.Cached(path))
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	l := survey.NewLoader()
	path := surveytest.WriteFile(t, surveytest.Row{Timestamp: "bad"})
	_, err := l.Load(path)
	require.Error(t, err)
	assert.False(t, l.Cached(path))
}

func TestBuildRejectsOverlongRow(t *testing.T) {
	data := surveytest.CSV(surveytest.Row{}) + strings.Repeat("x,", len(surveytest.Header)) + "x\n"
	_, err := survey.Build(strings.NewReader(data), survey.Source{})
	require.Error(t, err)
	var pe *survey.ParseError
	assert.False(t, errors.As(err, &pe))
}

func TestLoaderWatchInvalidatesOnWrite(t *testing.T) {
	path := surveytest.WriteFile(t, surveytest.Sample()...)
	l := survey.NewLoader()
	_, err := l.Load(path)
	require.NoError(t, err)
	require.True(t, l.Cached(path))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Watch(ctx, path) }()

	data := []byte(surveytest.CSV(surveytest.Sample()[:3]...))
	require.Eventually(t, func() bool {
		// Keep rewriting until the watcher is registered and sees an event.
		_ = os.WriteFile(path, data, 0o644)
		return !l.Cached(path)
	}, 5*time.Second, 50*time.Millisecond)

	tbl, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestBuildWithNoRetainedRows(t *testing.T) {
	cases := map[string]string{
		"header only":      surveytest.CSV(),
		"all out of range": surveytest.CSV(surveytest.Row{Age: "15"}, surveytest.Row{Age: "200"}, surveytest.Row{Age: "1e20"}),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := survey.Build(strings.NewReader(data), survey.Source{Path: "empty.csv"})
			require.NoError(t, err)
			assert.Equal(t, 0, tbl.Len())
			assert.Contains(t, tbl.Columns(), survey.ColAgeGroup)
		})
	}
}

func TestLoadHeaderOnlyFile(t *testing.T) {
	path := surveytest.WriteFile(t)
	tbl, err := survey.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}
