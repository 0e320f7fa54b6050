package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"rulesbot/llm"
)

type askBody struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	GameName  string `json:"game_name"`
	Timestamp string `json:"timestamp"`
}

func TestAskAndHistory(t *testing.T) {
	api := newTestAPI(t)
	game := api.createGame(t, map[string]string{
		"name":           "Catan",
		"description":    "Trade and build",
		"official_rules": "Players may trade only on their own turn.",
	})
	base := "/api/games/" + strconv.Itoa(int(game.ID))

	rec := api.do(t, http.MethodPost, base+"/ask", map[string]string{"question": " Can I trade with other players? "})
	if rec.Code != http.StatusOK {
		t.Fatalf("ask status = %d (body %s)", rec.Code, rec.Body.String())
	}
	answer := decodeBody[askBody](t, rec)
	if answer.Question != "Can I trade with other players?" || answer.Answer != "Yes, during your own turn." || answer.GameName != "Catan" {
		t.Fatalf("ask = %+v", answer)
	}
	if _, err := time.Parse("2006-01-02T15:04:05.000Z", answer.Timestamp); err != nil {
		t.Fatalf("timestamp %q: %v", answer.Timestamp, err)
	}

	rec = api.do(t, http.MethodGet, base+"/questions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "context_used") {
		t.Fatalf("history exposes context: %s", rec.Body.String())
	}
	history := decodeBody[[]struct {
		ID       uint   `json:"id"`
		GameID   uint   `json:"game_id"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}](t, rec)
	if len(history) != 1 || history[0].GameID != game.ID || history[0].Question != answer.Question {
		t.Fatalf("history = %+v", history)
	}

	list := decodeBody[[]gameBody](t, api.do(t, http.MethodGet, "/api/games", nil))
	if len(list) != 1 || list[0].QuestionCount != 1 {
		t.Fatalf("list after ask = %+v", list)
	}
}

func TestAskValidation(t *testing.T) {
	api := newTestAPI(t)
	game := api.createGame(t, map[string]string{"name": "Chess", "description": "Two players"})
	path := "/api/games/" + strconv.Itoa(int(game.ID)) + "/ask"

	expectError(t, api.do(t, http.MethodPost, path, map[string]string{"question": "   "}), http.StatusBadRequest, "missing_question")
	expectError(t, api.do(t, http.MethodPost, path, map[string]string{}), http.StatusBadRequest, "missing_question")
	expectError(t, api.do(t, http.MethodPost, path, nil), http.StatusBadRequest, "missing_question")
	expectError(t, api.do(t, http.MethodPost, path, "not json"), http.StatusBadRequest, "invalid_request")
	expectError(t, api.do(t, http.MethodPost, "/api/games/999/ask", map[string]string{"question": "Who moves first?"}), http.StatusNotFound, "not_found")

	if api.completer.Calls() != 0 {
		t.Fatalf("completer called %d times", api.completer.Calls())
	}
}

func TestAskUpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
		status int
		code   string
	}{
		{"quota", "", fmt.Errorf("%w: try later", llm.ErrInsufficientQuota), http.StatusTooManyRequests, "quota_exceeded"},
		{"credential", "", fmt.Errorf("%w: bad key", llm.ErrInvalidAPIKey), http.StatusUnauthorized, "invalid_api_key"},
		{"empty answer", "", nil, http.StatusInternalServerError, "ai_error"},
		{"other", "", errors.New("boom"), http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.completer.answer = tt.answer
			api.completer.err = tt.err
			game := api.createGame(t, map[string]string{"name": "Risk", "description": "Conquest"})
			base := "/api/games/" + strconv.Itoa(int(game.ID))

			rec := api.do(t, http.MethodPost, base+"/ask", map[string]string{"question": "How many armies?"})
			expectError(t, rec, tt.status, tt.code)
			if strings.Contains(rec.Body.String(), "boom") {
				t.Fatalf("production error leaked cause: %s", rec.Body.String())
			}

			if body := api.do(t, http.MethodGet, base+"/questions", nil).Body.String(); body != "[]" {
				t.Fatalf("failed ask persisted history: %s", body)
			}
		})
	}
}

func TestQuestionHistoryLimit(t *testing.T) {
	api := newTestAPI(t)
	game := api.createGame(t, map[string]string{"name": "Catan", "description": "d"})
	base := "/api/games/" + strconv.Itoa(int(game.ID))

	for i := 1; i <= 4; i++ {
		rec := api.do(t, http.MethodPost, base+"/ask", map[string]string{"question": fmt.Sprintf("q%d", i)})
		if rec.Code != http.StatusOK {
			t.Fatalf("ask %d status = %d", i, rec.Code)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"?limit=2", []string{"q4", "q3"}},
		{"?limit=abc", []string{"q4", "q3", "q2", "q1"}},
		{"?limit=0", []string{"q4", "q3", "q2", "q1"}},
		{"?limit=-3", []string{"q4", "q3", "q2", "q1"}},
		{"?limit=100000", []string{"q4", "q3", "q2", "q1"}},
		{"", []string{"q4", "q3", "q2", "q1"}},
	}

	for _, tt := range tests {
		rec := api.do(t, http.MethodGet, base+"/questions"+tt.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%q status = %d", tt.query, rec.Code)
		}
		items := decodeBody[[]struct {
			Question string `json:"question"`
		}](t, rec)
		var got []string
		for _, item := range items {
			got = append(got, item.Question)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%q = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestHistoryForUnknownGameIsEmpty(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/games/12345/questions", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "[]" {
		t.Fatalf("unknown game history = %d %q", rec.Code, rec.Body.String())
	}
}

func TestDeleteGameRemovesHistory(t *testing.T) {
	api := newTestAPI(t)
	game := api.createGame(t, map[string]string{"name": "Uno", "description": "Cards"})
	base := "/api/games/" + strconv.Itoa(int(game.ID))

	if rec := api.do(t, http.MethodPost, base+"/ask", map[string]string{"question": "Can I stack?"}); rec.Code != http.StatusOK {
		t.Fatalf("ask status = %d", rec.Code)
	}
	if rec := api.do(t, http.MethodDelete, base, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if body := api.do(t, http.MethodGet, base+"/questions", nil).Body.String(); body != "[]" {
		t.Fatalf("history after delete = %s", body)
	}
}
