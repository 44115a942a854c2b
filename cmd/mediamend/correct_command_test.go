package main

import (
	"encoding/json"
	"testing"
)

func TestCorrectReplacesEntry(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{
		"correct",
		"--folder", "Alien (1979)",
		"--tmdb-id", "349",
		"--title", "Aliens",
		"--media-type", "movie",
		"--release-date", "1986-07-18",
		"--rating", "7.9",
	}, env.configPath)
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	requireContains(t, out, "Updated \"Alien (1979)\" -> Aliens (349)")

	var stored struct {
		Folders map[string]struct {
			TMDBID      any     `json:"tmdb_id"`
			Title       string  `json:"title"`
			VoteAverage float64 `json:"vote_average"`
			Failed      bool    `json:"failed"`
		} `json:"folders"`
	}
	if err := json.Unmarshal([]byte(env.storage.current()), &stored); err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	entry, ok := stored.Folders["Alien (1979)"]
	if !ok {
		t.Fatalf("stored folders = %v", stored.Folders)
	}
	if entry.Title != "Aliens" || entry.VoteAverage != 7.9 || entry.Failed {
		t.Fatalf("stored entry = %+v", entry)
	}
	if id, ok := entry.TMDBID.(float64); !ok || id != 349 {
		t.Fatalf("tmdb_id = %v (%T)", entry.TMDBID, entry.TMDBID)
	}
}

func TestCorrectStringIdentifierSurvives(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{
		"correct",
		"--folder", "Severance",
		"--tmdb-id", "tt1234567",
		"--title", "Severance",
		"--media-type", "tv",
	}, env.configPath)
	if err != nil {
		t.Fatalf("correct: %v", err)
	}

	var stored struct {
		Folders map[string]struct {
			TMDBID any `json:"tmdb_id"`
		} `json:"folders"`
	}
	if err := json.Unmarshal([]byte(env.storage.current()), &stored); err != nil {
		t.Fatalf("decode stored document: %v", err)
	}
	if id, _ := stored.Folders["Severance"].TMDBID.(string); id != "tt1234567" {
		t.Fatalf("tmdb_id = %v", stored.Folders["Severance"].TMDBID)
	}
}

func TestCorrectRequiresFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"correct", "--tmdb-id", "348"}, env.configPath)
	if err == nil {
		t.Fatal("expected correct to require --folder")
	}
}
