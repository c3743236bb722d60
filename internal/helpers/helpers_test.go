package helpers_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/helpers"
)

func TestIsValidStudentCode(t *testing.T) {
	cases := []struct {
		code  string
		valid bool
	}{
		{"ABC123", true},
		{"A1B2C3D4E5", true},
		{"20C1042", true},
		{"abc123", false},
		{"AB12", false},
		{"A1B2C3D4E5F", false},
		{"ABC 123", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, helpers.IsValidStudentCode(tc.code), "code %q", tc.code)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, helpers.IsValidEmail("student@school.edu"))
	assert.True(t, helpers.IsValidEmail("a.b+c@sub.domain.org"))
	assert.False(t, helpers.IsValidEmail("no-at-sign"))
	assert.False(t, helpers.IsValidEmail("spaces in@mail.com"))
	assert.False(t, helpers.IsValidEmail("missing@tld"))
}

func TestFormatCourseCode(t *testing.T) {
	assert.Equal(t, "CS101", helpers.FormatCourseCode(" cs-101 "))
	assert.Equal(t, "MATH2B", helpers.FormatCourseCode("math 2b"))

	// Nothing survives normalization, input comes back unchanged.
	assert.Equal(t, "---", helpers.FormatCourseCode("---"))
	assert.Equal(t, "", helpers.FormatCourseCode(""))
}

func TestSanitizeInput(t *testing.T) {
	in := `<script>alert("x")</script>`
	out := helpers.SanitizeInput(in)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.NotContains(t, out, `"`)
	assert.Equal(t, "&lt;script&gt;alert(&quot;x&quot;)&lt;&#x2F;script&gt;", out)

	// Single-pass escaping means a second application re-escapes the
	// ampersands of the produced entities.
	twice := helpers.SanitizeInput(out)
	assert.NotEqual(t, out, twice)
	assert.Contains(t, twice, "&amp;lt;")
}

func TestValidateRequiredFields(t *testing.T) {
	data := map[string]interface{}{
		"name":     "Alice",
		"email":    "   ",
		"year":     0,
		"active":   false,
		"priority": 2,
	}

	ok, missing := helpers.ValidateRequiredFields(data, []string{"name", "email", "year", "active", "priority", "course"})
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"email", "year", "active", "course"}, missing)

	ok, missing = helpers.ValidateRequiredFields(data, []string{"name", "priority"})
	assert.True(t, ok)
	assert.Empty(t, missing)
}

func TestGetPositionSuffix(t *testing.T) {
	cases := map[int]string{
		1:   "1st",
		2:   "2nd",
		3:   "3rd",
		4:   "4th",
		11:  "11th",
		12:  "12th",
		13:  "13th",
		21:  "21st",
		22:  "22nd",
		23:  "23rd",
		111: "111th",
		101: "101st",
	}

	for n, want := range cases {
		assert.Equal(t, want, helpers.GetPositionSuffix(n))
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", helpers.FormatMinutes(45))
	assert.Equal(t, "1h", helpers.FormatMinutes(60))
	assert.Equal(t, "1h 30m", helpers.FormatMinutes(90))
	assert.Equal(t, "0m", helpers.FormatMinutes(0))
}

func TestCalculateBusinessHoursWaitTime(t *testing.T) {
	loc := time.UTC

	// Monday 10:00 to Monday 11:30, fully inside business hours.
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, loc)
	end := time.Date(2026, 8, 24, 11, 30, 0, 0, loc)
	assert.Equal(t, 90, helpers.CalculateBusinessHoursWaitTime(start, end))

	// Friday 16:00 to Monday 10:00 skips the weekend entirely.
	start = time.Date(2026, 8, 28, 16, 0, 0, 0, loc)
	end = time.Date(2026, 8, 31, 10, 0, 0, 0, loc)
	assert.Equal(t, 120, helpers.CalculateBusinessHoursWaitTime(start, end))

	// Entirely outside business hours.
	start = time.Date(2026, 8, 24, 18, 0, 0, 0, loc)
	end = time.Date(2026, 8, 24, 20, 0, 0, 0, loc)
	assert.Equal(t, 0, helpers.CalculateBusinessHoursWaitTime(start, end))

	// end before start.
	assert.Equal(t, 0, helpers.CalculateBusinessHoursWaitTime(end, start))
}

func TestAcademicYear(t *testing.T) {
	got := helpers.GetCurrentAcademicYear()
	parts := strings.Split(got, "-")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 4)
	assert.Len(t, parts[1], 4)
}

func TestGetTimeAgo(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", helpers.GetTimeAgo(now.Add(-30*time.Second)))
	assert.Equal(t, "5 minutes ago", helpers.GetTimeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "1 hour ago", helpers.GetTimeAgo(now.Add(-1*time.Hour-time.Minute)))
	assert.Equal(t, "3 days ago", helpers.GetTimeAgo(now.Add(-72*time.Hour-time.Minute)))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	page := helpers.Paginate(items, 2, 10)
	require.Len(t, page.Items, 10)
	assert.Equal(t, 11, page.Items[0])
	assert.Equal(t, 20, page.Items[9])
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 25, page.Pagination.TotalItems)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	last := helpers.Paginate(items, 3, 10)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.Pagination.HasNext)

	beyond := helpers.Paginate(items, 99, 10)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 99, beyond.Pagination.CurrentPage)

	// page and limit below 1 are clamped.
	clamped := helpers.Paginate(items, 0, 0)
	assert.Equal(t, 1, clamped.Pagination.CurrentPage)
	assert.Equal(t, 10, clamped.Pagination.ItemsPerPage)

	empty := helpers.Paginate([]int{}, 1, 10)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
	assert.False(t, empty.Pagination.HasNext)
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := helpers.RetryWithBackoff(func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("recovers after failures", func(t *testing.T) {
		calls := 0
		err := helpers.RetryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("backoff doubles between attempts", func(t *testing.T) {
		calls := 0
		start := time.Now()
		err := helpers.RetryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 3, 50*time.Millisecond)
		require.NoError(t, err)

		// Two failed attempts sleep 50ms then 100ms.
		assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	})

	t.Run("returns last error verbatim", func(t *testing.T) {
		sentinel := errors.New("still broken")
		calls := 0
		err := helpers.RetryWithBackoff(func() error {
			calls++
			return sentinel
		}, 3, time.Millisecond)
		assert.Same(t, sentinel, err)
		assert.Equal(t, 3, calls)
	})
}

func TestGenerateTicketNumber(t *testing.T) {
	ticket := helpers.GenerateTicketNumber("registrar")
	assert.True(t, strings.HasPrefix(ticket, "R"))
	assert.Equal(t, strings.ToUpper(ticket), ticket)

	fallback := helpers.GenerateTicketNumber("")
	assert.True(t, strings.HasPrefix(fallback, "X"))
}

func TestGenerateStudentCode(t *testing.T) {
	code := helpers.GenerateStudentCode(2026, "Computer Science")
	require.Len(t, code, 7)
	assert.Equal(t, "26C", code[:3])
	assert.True(t, helpers.IsValidStudentCode(code))
}

func TestGenerateSecureRandom(t *testing.T) {
	a, err := helpers.GenerateSecureRandom(16)
	require.NoError(t, err)
	b, err := helpers.GenerateSecureRandom(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestHashData(t *testing.T) {
	h1 := helpers.HashData("payload", "key")
	h2 := helpers.HashData("payload", "key")
	h3 := helpers.HashData("payload", "other-key")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestDeepClone(t *testing.T) {
	orig := map[string]interface{}{
		"name": "Alice",
		"tags": []interface{}{"a", "b"},
		"meta": map[string]interface{}{"year": 2},
		"at":   time.Now(),
	}

	clone := helpers.DeepClone(orig).(map[string]interface{})
	clone["name"] = "Bob"
	clone["meta"].(map[string]interface{})["year"] = 3
	clone["tags"].([]interface{})[0] = "z"

	assert.Equal(t, "Alice", orig["name"])
	assert.Equal(t, 2, orig["meta"].(map[string]interface{})["year"])
	assert.Equal(t, "a", orig["tags"].([]interface{})[0])
}
