package survey

import (
	"strings"
	"testing"
)

func testFrame(t *testing.T, header string, rows ...string) *frame {
	t.Helper()
	f, err := readFrame(strings.NewReader(header + "\n" + strings.Join(rows, "\n") + "\n"))
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestDropAgeOutliersStep(t *testing.T) {
	f := testFrame(t, "Age,Country", "15,a", "17,b", "35.0,c", "NA,d", "100,e")
	out, err := DropAgeOutliers().run(f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.rows) != 2 || len(out.ages) != 2 {
		t.Fatalf("expected 2 rows, got %d (ages %v)", len(out.rows), out.ages)
	}
	if out.ages[1] != 35 || out.rows[1][0].Text != "35" {
		t.Fatalf("expected canonical age 35, got %d / %q", out.ages[1], out.rows[1][0].Text)
	}
	if out.line[1] != 3 {
		t.Fatalf("expected source row 3 to be kept, got %d", out.line[1])
	}
	if len(f.rows) != 5 {
		t.Fatalf("input frame was modified")
	}
}

func TestDropAgeOutliersRejectsFractionalAge(t *testing.T) {
	f := testFrame(t, "Age", "35.5")
	if _, err := DropAgeOutliers().run(f); err == nil {
		t.Fatalf("expected error for fractional age")
	}
}

func TestDropAgeOutliersDropsHugeAges(t *testing.T) {
	f := testFrame(t, "Age", "1e20", "-1e20", "99999999999999999999", "30")
	out, err := DropAgeOutliers().run(f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.rows) != 1 || out.ages[0] != 30 {
		t.Fatalf("expected only age 30 to remain, got %v", out.ages)
	}
	for _, bad := range []string{"NaN-ish", "Inf", "abc"} {
		if _, err := DropAgeOutliers().run(testFrame(t, "Age", bad)); err == nil {
			t.Fatalf("expected error for age %q", bad)
		}
	}
}

func TestEmptyFrameStaysFinalized(t *testing.T) {
	f := testFrame(t, "Age,Gender", "15,Male", "200,Female")
	out, err := runPipeline(f, []Step{DropAgeOutliers(), NormalizeGenders(), BucketAges()})
	if err != nil {
		t.Fatalf("runPipeline: %v", err)
	}
	if len(out.rows) != 0 || !out.agesSet {
		t.Fatalf("expected an empty finalized frame, got %d rows (agesSet=%v)", len(out.rows), out.agesSet)
	}
	if _, ok := out.index[ColAgeGroup]; !ok {
		t.Fatalf("Age_Group column missing on empty frame")
	}
}

func TestNormalizeGendersStep(t *testing.T) {
	f := testFrame(t, "Gender", "Cis Male", "NA", "queer", "F")
	out, err := NormalizeGenders().run(f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{GenderMale, GenderOther, GenderNonBinary, GenderFemale}
	for i, w := range want {
		if got := out.rows[i][0].Text; got != w {
			t.Fatalf("row %d: got %q want %q", i, got, w)
		}
	}
	if f.rows[0][0].Text != "Cis Male" {
		t.Fatalf("input frame was modified")
	}
}

func TestFillMissingStep(t *testing.T) {
	f := testFrame(t, "state,work_interfere,self_employed,treatment", "NA,NA,,NA", "CA,Often,Yes,Yes")
	out, err := FillMissing().run(f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	r := out.rows[0]
	if r[0].Text != NotApplicable || r[1].Text != NotApplicable || r[2].Text != No {
		t.Fatalf("unexpected fills: %+v", r)
	}
	if !r[3].Missing {
		t.Fatalf("treatment should stay missing")
	}
	if out.rows[1][0].Text != "CA" || out.rows[1][2].Text != "Yes" {
		t.Fatalf("present values must be kept: %+v", out.rows[1])
	}
}

func TestBucketAgesRequiresFinalAges(t *testing.T) {
	f := testFrame(t, "Age", "30")
	if _, err := BucketAges().run(f); err == nil {
		t.Fatalf("expected error when ages are not finalized")
	}
	f, err := DropAgeOutliers().run(f)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	out, err := BucketAges().run(f)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if out.header[len(out.header)-1] != ColAgeGroup || out.rows[0][1].Text != "26-35" {
		t.Fatalf("unexpected bucket output: %v %+v", out.header, out.rows[0])
	}
}

func TestParseTimestampsStep(t *testing.T) {
	f := testFrame(t, "Timestamp", "2014-08-27 11:29:31", "8/27/2014 11:29", "NA")
	out, err := ParseTimestamps().run(f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.rows[1][0].Text != "2014-08-27 11:29:00" {
		t.Fatalf("expected canonical layout, got %q", out.rows[1][0].Text)
	}
	if !out.rows[2][0].Missing || !out.times[2].IsZero() {
		t.Fatalf("missing timestamp should stay missing")
	}
}

func TestBucketAgeBoundaries(t *testing.T) {
	cases := []struct {
		age  int
		want string
	}{
		{0, ""}, {1, "18-25"}, {25, "18-25"}, {26, "26-35"}, {35, "26-35"}, {36, "36-45"},
		{55, "46-55"}, {56, "56+"}, {100, "56+"}, {101, ""},
	}
	for _, c := range cases {
		if got := BucketAge(c.age); got != c.want {
			t.Errorf("BucketAge(%d) = %q, want %q", c.age, got, c.want)
		}
	}
}
