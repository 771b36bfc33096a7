package providers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/statboard/internal/config"
	"github.com/ziadkadry99/statboard/internal/stats"
)

func TestParseCodeforcesDeduplicates(t *testing.T) {
	t.Parallel()
	body := `{"status":"OK","result":[
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
		{"verdict":"WRONG","problem":{"contestId":2,"index":"B"}}
	]}`

	rec, err := ParseCodeforces([]byte(body))
	require.NoError(t, err)
	require.Equal(t, stats.Record{"solved": 1}, rec)
}

func TestParseCodeforces(t *testing.T) {
	t.Parallel()
	tests := []struct {
		scenario string
		body     string
		then     stats.Record
		err      error
		message  string
	}{
		{
			scenario: "distinct problems across contests",
			body: `{"status":"OK","result":[
				{"verdict":"OK","problem":{"contestId":1,"index":"A"}},
				{"verdict":"OK","problem":{"contestId":2,"index":"A"}},
				{"verdict":"OK","problem":{"contestId":1,"index":"B"}},
				{"verdict":"TIME_LIMIT_EXCEEDED","problem":{"contestId":3,"index":"C"}}
			]}`,
			then: stats.Record{"solved": 3},
		},
		{
			scenario: "no submissions",
			body:     `{"status":"OK","result":[]}`,
			then:     stats.Record{"solved": 0},
		},
		{
			scenario: "upstream comment",
			body:     `{"status":"FAILED","comment":"handle: User with handle nobody not found"}`,
			err:      stats.ErrUpstream,
			message:  "handle: User with handle nobody not found",
		},
		{
			scenario: "upstream without comment",
			body:     `{"status":"FAILED"}`,
			err:      stats.ErrUpstream,
			message:  "Codeforces API returned an error",
		},
		{
			scenario: "malformed",
			body:     `{"status":"OK","result":{}}`,
			err:      stats.ErrParse,
		},
		{
			scenario: "missing result",
			body:     `{"status":"OK"}`,
			err:      stats.ErrParse,
		},
		{
			scenario: "null result",
			body:     `{"status":"OK","result":null}`,
			err:      stats.ErrParse,
		},
		{
			scenario: "accepted submission without problem",
			body:     `{"status":"OK","result":[{"verdict":"OK"}]}`,
			err:      stats.ErrParse,
		},
		{
			scenario: "accepted submission without index",
			body:     `{"status":"OK","result":[{"verdict":"OK","problem":{"contestId":1}}]}`,
			err:      stats.ErrParse,
		},
		{
			scenario: "rejected submission without problem is ignored",
			body:     `{"status":"OK","result":[{"verdict":"WRONG_ANSWER"},{"verdict":"OK","problem":{"contestId":1,"index":"A"}}]}`,
			then:     stats.Record{"solved": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			t.Parallel()
			rec, err := ParseCodeforces([]byte(tt.body))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				require.Nil(t, rec)
				if tt.message != "" {
					require.EqualError(t, err, tt.message)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.then, rec)
		})
	}
}

func TestParseLeetCode(t *testing.T) {
	t.Parallel()
	rec, err := ParseLeetCode([]byte(`{"status":"success","totalSolved":100,"easySolved":50,"mediumSolved":40,"hardSolved":10}`))
	require.NoError(t, err)
	require.Equal(t, stats.Record{"total": 100, "easy": 50, "medium": 40, "hard": 10}, rec)

	_, err = ParseLeetCode([]byte(`{"status":"error","message":"user not found"}`))
	require.ErrorIs(t, err, stats.ErrUpstream)
	require.EqualError(t, err, "user not found")

	_, err = ParseLeetCode([]byte(`{"status":"error"}`))
	require.EqualError(t, err, "Failed to get stats")

	_, err = ParseLeetCode([]byte(`{"status":"success","totalSolved":1}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = ParseLeetCode([]byte(`<html>`))
	require.ErrorIs(t, err, stats.ErrParse)
}

func TestLeetCodeEndToEnd(t *testing.T) {
	t.Parallel()
	gotPath := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath <- r.URL.Path
		fmt.Fprint(w, `{"status":"success","totalSolved":100,"easySolved":50,"mediumSolved":40,"hardSolved":10}`)
	}))
	t.Cleanup(srv.Close)

	out := stats.NewFetcher(srv.Client()).Fetch(t.Context(), NewLeetCode("leetcode", srv.URL+"/"), "testuser")
	require.True(t, out.OK())
	require.Equal(t, "/testuser", <-gotPath)
	require.ElementsMatch(t, LeetCodeCategories, out.Record.Categories())
	require.Equal(t, stats.Record{"total": 100, "easy": 50, "medium": 40, "hard": 10}, out.Record)
}

func TestCodeforcesEndToEnd(t *testing.T) {
	t.Parallel()
	gotHandle := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHandle <- r.URL.Query().Get("handle")
		fmt.Fprint(w, `{"status":"OK","result":[{"verdict":"OK","problem":{"contestId":4,"index":"A"}}]}`)
	}))
	t.Cleanup(srv.Close)

	out := stats.NewFetcher(srv.Client()).Fetch(t.Context(), NewCodeforces("codeforces", srv.URL+"/api/user.status"), "testuser")
	require.True(t, out.OK())
	require.Equal(t, "testuser", <-gotHandle)
	require.Equal(t, stats.Record{"solved": 1}, out.Record)
}

func TestNewCodeforcesKeepsExistingQuery(t *testing.T) {
	t.Parallel()
	src := NewCodeforces("cf", "https://example.com/api/user.status?lang=en")
	u, err := src.URL("tourist")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api/user.status?lang=en&handle=tourist", u)
}

func TestJSONSource(t *testing.T) {
	t.Parallel()
	spec := JSONSpec{
		Endpoint:     "https://example.com/{handle}",
		StatusPath:   "ok",
		SuccessValue: "true",
		MessagePath:  "error.text",
		Fields: map[string]string{
			"solved": "data.accepted",
			"rated":  "data.problems",
		},
	}
	src := NewJSON("generic", spec)
	require.Equal(t, []string{"rated", "solved"}, src.Categories)

	rec, err := src.Parse([]byte(`{"ok":true,"data":{"accepted":12,"problems":["a","b"]}}`))
	require.NoError(t, err)
	require.Equal(t, stats.Record{"solved": 12, "rated": 2}, rec)

	_, err = src.Parse([]byte(`{"ok":false,"error":{"text":"rate limited"}}`))
	require.ErrorIs(t, err, stats.ErrUpstream)
	require.EqualError(t, err, "rate limited")

	_, err = src.Parse([]byte(`{"ok":true,"data":{"accepted":"many","problems":[]}}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = src.Parse([]byte(`{"ok":true,"data":{"accepted":1.5,"problems":[]}}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = src.Parse([]byte(`{"ok":true,"data":{"accepted":1e300,"problems":[]}}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = src.Parse([]byte(`{"ok":true,"data":{"accepted":-1e20,"problems":[]}}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = src.Parse([]byte(`{"ok":true,"data":{}}`))
	require.ErrorIs(t, err, stats.ErrParse)

	_, err = src.Parse([]byte(`{`))
	require.ErrorIs(t, err, stats.ErrParse)
}

func TestFactory(t *testing.T) {
	t.Parallel()
	src, err := New(config.SourceConfig{Name: "lc", Kind: config.KindLeetCode})
	require.NoError(t, err)
	require.Equal(t, "lc", src.Name)
	require.Equal(t, DefaultLeetCodeURL+"/{handle}", src.Endpoint)
	require.Nil(t, src.Client)

	src, err = New(config.SourceConfig{Name: "cf", Kind: config.KindCodeforces, RateLimitRPM: 30})
	require.NoError(t, err)
	require.Equal(t, DefaultCodeforcesURL+"?handle={handle}", src.Endpoint)
	require.IsType(t, &stats.RateLimitedDoer{}, src.Client)

	_, err = New(config.SourceConfig{Name: "j", Kind: config.KindJSON})
	require.Error(t, err)

	_, err = New(config.SourceConfig{Name: "x", Kind: "unknown"})
	require.Error(t, err)
}

func TestTargets(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()
	cfg.Handle = "testuser"
	cfg.Sources[1].Handle = "cfuser"

	targets, err := Targets(cfg, nil)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	require.Equal(t, "testuser", targets[0].Handle)
	require.Equal(t, "cfuser", targets[1].Handle)

	targets, err = Targets(cfg, []string{"code*"})
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, "codeforces", targets[0].Source.Name)
}
