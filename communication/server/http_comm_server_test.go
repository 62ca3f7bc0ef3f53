package server

import (
	"blackhole/communication"
	"blackhole/game"
	"blackhole/gamemaster"
	"blackhole/searcher"
	"blackhole/searcher/agent"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mcts := searcher.NewMonteCarlo(2, searcher.WithEpisodes(50), searcher.WithSeed(3))
	g := gamemaster.NewGame(agent.NewEvaluationAgent(mcts))
	srv := httptest.NewServer(NewServerCommunicator(g).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	status := decode[gamemaster.Status](t, resp)
	require.Len(t, status.Cells, game.BoardSize)
	require.Len(t, status.LegalMoves, game.BoardSize)
	require.Equal(t, game.Human, status.CurrentPlayer)
}

func TestHandleMove(t *testing.T) {
	t.Run("by index", func(t *testing.T) {
		srv := newTestServer(t)

		resp := post(t, srv.URL+"/api/move", `{"index": 4}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		status := decode[gamemaster.Status](t, resp)
		require.Equal(t, &game.Tile{Player: game.Human, Value: 1}, status.Cells[4])
	})

	t.Run("by coordinates", func(t *testing.T) {
		srv := newTestServer(t)

		resp := post(t, srv.URL+"/api/move", `{"col": 2, "row": 3}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		status := decode[gamemaster.Status](t, resp)
		require.NotNil(t, status.Cells[game.CoordsToIndex(2, 3)])
	})

	t.Run("coordinates outside the board", func(t *testing.T) {
		srv := newTestServer(t)

		resp := post(t, srv.URL+"/api/move", `{"col": 4, "row": 3}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, communication.CodeInvalidMove, decode[communication.ErrorResponse](t, resp).Code)
	})

	t.Run("occupied cell", func(t *testing.T) {
		srv := newTestServer(t)
		post(t, srv.URL+"/api/move", `{"index": 0}`)
		post(t, srv.URL+"/api/computer", ``)

		resp := post(t, srv.URL+"/api/move", `{"index": 0}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, communication.CodeInvalidMove, decode[communication.ErrorResponse](t, resp).Code)
	})

	t.Run("wrong turn", func(t *testing.T) {
		srv := newTestServer(t)
		post(t, srv.URL+"/api/move", `{"index": 0}`)

		resp := post(t, srv.URL+"/api/move", `{"index": 1}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, communication.CodeWrongTurn, decode[communication.ErrorResponse](t, resp).Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := newTestServer(t)

		resp := post(t, srv.URL+"/api/move", `{"index":`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, communication.CodeBadRequest, decode[communication.ErrorResponse](t, resp).Code)
	})

	t.Run("missing cell", func(t *testing.T) {
		srv := newTestServer(t)

		resp := post(t, srv.URL+"/api/move", `{}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleComputerMove(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/api/computer", ``)
	require.Equal(t, http.StatusConflict, resp.StatusCode, "Human moves first")

	post(t, srv.URL+"/api/move", `{"index": 10}`)
	resp = post(t, srv.URL+"/api/computer", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[ComputerMoveResponse](t, resp)
	require.NotEqual(t, 10, body.Move)
	require.Equal(t, &game.Tile{Player: game.Computer, Value: 1}, body.Status.Cells[body.Move])
	require.Equal(t, game.Human, body.Status.CurrentPlayer)
}

func TestHandleMovesAndReset(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv.URL+"/api/move", `{"index": 6}`)

	resp, err := http.Get(srv.URL + "/api/moves")
	require.NoError(t, err)
	defer resp.Body.Close()
	moves := decode[MovesResponse](t, resp)
	require.Len(t, moves.LegalMoves, game.BoardSize-1)
	require.NotContains(t, moves.LegalMoves, 6)

	resp = post(t, srv.URL+"/api/reset", ``)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decode[gamemaster.Status](t, resp)
	require.Len(t, status.LegalMoves, game.BoardSize)
	require.Nil(t, status.LastMove)
}

func TestHandleWS(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "status", msg.Type)
	require.NotNil(t, msg.Status)
	require.Nil(t, msg.Status.LastMove)

	post(t, srv.URL+"/api/move", `{"index": 12}`)

	msg = wsMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "status", msg.Type)
	require.NotNil(t, msg.Status.LastMove)
	require.Equal(t, 12, *msg.Status.LastMove)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
