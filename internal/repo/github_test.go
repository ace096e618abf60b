package repo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		url  string
		want ID
		ok   bool
	}{
		{"https://github.com/acme/widgets", ID{"acme", "widgets"}, true},
		{"http://github.com/acme/widgets", ID{"acme", "widgets"}, true},
		{"https://github.com/acme/widgets/", ID{"acme", "widgets"}, true},
		{"https://github.com/acme/widgets.git", ID{"acme", "widgets"}, true},
		{"  https://github.com/acme/widgets  ", ID{"acme", "widgets"}, true},
		{"https://gitlab.com/acme/widgets", ID{}, false},
		{"https://github.com/acme", ID{}, false},
		{"https://github.com/acme/widgets/tree/main", ID{}, false},
		{"not a url", ID{}, false},
	}
	for _, tc := range cases {
		got, err := ParseURL(tc.url)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseURL(%q)=%v,%v want %v", tc.url, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseURL(%q) unexpectedly succeeded: %v", tc.url, got)
		}
	}
}

type ghItem struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size int64  `json:"size"`
}

// fakeGitHub serves the three endpoints the client uses: repo metadata,
// tree listings keyed by sha, and file contents.
func fakeGitHub(t *testing.T, trees map[string][]ghItem, contents map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"default_branch": "main"})
	})
	mux.HandleFunc("/repos/acme/widgets/git/trees/", func(w http.ResponseWriter, r *http.Request) {
		sha := strings.TrimPrefix(r.URL.Path, "/repos/acme/widgets/git/trees/")
		items, ok := trees[sha]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"tree": items})
	})
	mux.HandleFunc("/repos/acme/widgets/contents/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/repos/acme/widgets/contents/")
		raw, ok := contents[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(raw)),
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTreeExpandsLevels(t *testing.T) {
	trees := map[string][]ghItem{
		"main": {
			{Path: "README.md", Type: "blob", Size: 100},
			{Path: "src", Type: "tree", SHA: "sha-src"},
			{Path: "node_modules", Type: "tree", SHA: "sha-nm"},
		},
		"sha-src": {
			{Path: "main.py", Type: "blob", Size: 200},
		},
	}
	srv := fakeGitHub(t, trees, nil)

	c := NewGitHubClientAt(srv.URL, "")
	c.Skip = func(e Entry) bool { return e.Name() == "node_modules" }

	entries, err := c.FetchTree(context.Background(), ID{"acme", "widgets"}, 3, 50)
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}

	want := []Entry{
		{Path: "README.md", Kind: KindFile, Size: 100},
		{Path: "src", Kind: KindDir},
		{Path: "src/main.py", Kind: KindFile, Size: 200},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %v want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: got %v want %v", i, entries[i], want[i])
		}
	}
}

func TestFetchTreeRespectsDepth(t *testing.T) {
	trees := map[string][]ghItem{
		"main":  {{Path: "a", Type: "tree", SHA: "sha-a"}},
		"sha-a": {{Path: "b", Type: "tree", SHA: "sha-b"}},
		"sha-b": {{Path: "c.txt", Type: "blob", Size: 1}},
	}
	srv := fakeGitHub(t, trees, nil)
	c := NewGitHubClientAt(srv.URL, "")

	entries, err := c.FetchTree(context.Background(), ID{"acme", "widgets"}, 1, 50)
	if err != nil {
		t.Fatalf("FetchTree: %v", err)
	}
	for _, e := range entries {
		if e.Path == "a/b/c.txt" {
			t.Fatal("expansion went past maxDepth")
		}
	}
}

func TestFetchTreeToleratesFailingSubtree(t *testing.T) {
	trees := map[string][]ghItem{
		"main": {
			{Path: "good", Type: "tree", SHA: "sha-good"},
			{Path: "bad", Type: "tree", SHA: "sha-missing"},
		},
		"sha-good": {{Path: "x.py", Type: "blob", Size: 1}},
	}
	srv := fakeGitHub(t, trees, nil)
	c := NewGitHubClientAt(srv.URL, "")

	entries, err := c.FetchTree(context.Background(), ID{"acme", "widgets"}, 3, 50)
	if err != nil {
		t.Fatalf("partial listing must survive one bad subtree: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Path == "good/x.py" {
			found = true
		}
	}
	if !found {
		t.Fatalf("sibling subtree lost: %v", entries)
	}
}

func TestFetchFile(t *testing.T) {
	srv := fakeGitHub(t, map[string][]ghItem{}, map[string]string{
		"src/main.py": "print('hi')\n",
	})
	c := NewGitHubClientAt(srv.URL, "")

	got, err := c.FetchFile(context.Background(), ID{"acme", "widgets"}, "src/main.py")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if got != "print('hi')\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFetchFileBinarySentinel(t *testing.T) {
	srv := fakeGitHub(t, map[string][]ghItem{}, map[string]string{
		"logo.png": string([]byte{0x89, 0x50, 0xff, 0xfe, 0x00}),
	})
	c := NewGitHubClientAt(srv.URL, "")

	got, err := c.FetchFile(context.Background(), ID{"acme", "widgets"}, "logo.png")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if got != BinaryFileSentinel {
		t.Fatalf("got %q want sentinel", got)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "gone"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	t.Cleanup(srv.Close)
	c := NewGitHubClientAt(srv.URL, "")

	_, err := c.FetchTree(context.Background(), ID{"acme", "gone"}, 3, 50)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 must map to ErrNotFound, got %v", err)
	}

	_, err = c.FetchTree(context.Background(), ID{"acme", "limited"}, 3, 50)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("403 must map to ErrRateLimited, got %v", err)
	}
}
