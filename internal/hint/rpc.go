// Package hint exposes the endgame solver as a pair of Nakama RPCs: a
// request struct unmarshalled from the JSON payload Nakama hands the RPC,
// a response struct marshalled back out. A running match (not this
// package's concern) can call Solve mid-hand to ask "from this exact pair
// of hands, with this player to lead, is there a forced win?", then
// FetchReplay to walk the proven tree one node at a time without resending
// both hands.
package hint

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/config"
	"doudizhu/internal/game"
	"doudizhu/internal/hand"
)

var tokens *TokenService

// Init installs the package-level TokenService every RPC in this file
// signs and verifies replay tokens with. Call once from an InitModule hook
// before registering the RPCs (see InitModule).
func Init(secret, issuer string) {
	tokens = NewTokenService(secret, issuer)
}

// SolveRequest is the JSON payload RpcSolve expects: two hand strings (see
// hand.Parse's glyph alphabet) and which player leads.
type SolveRequest struct {
	Hand0      string `json:"hand0"`
	Hand1      string `json:"hand1"`
	Lead       int    `json:"lead"`
	NodeBudget int    `json:"node_budget,omitempty"`
}

// SolveResponse is RpcSolve's JSON result.
type SolveResponse struct {
	ForcedWin   bool   `json:"forced_win"`
	ReplayToken string `json:"replay_token,omitempty"`
}

// RpcSolve parses two hand strings and a lead player from payload, runs the
// search, and returns the verdict plus (when a forced win exists) a signed
// token FetchReplay can use to walk the proven tree.
func RpcSolve(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req SolveRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		logger.Error("RpcSolve: failed to unmarshal payload: %v", err)
		return "", fmt.Errorf("hint: failed to unmarshal payload: %w", err)
	}

	hands, err := hand.ParsePair(req.Hand0, req.Hand1)
	if err != nil {
		logger.Error("RpcSolve: invalid hands: %v", err)
		return "", fmt.Errorf("hint: invalid hands: %w", err)
	}
	if req.Lead != 0 && req.Lead != 1 {
		return "", fmt.Errorf("hint: lead must be 0 or 1, got %d", req.Lead)
	}

	budget := req.NodeBudget
	if budget == 0 {
		budget = config.NodeBudget()
	}
	g, err := game.NewGameWithBudget(hands, req.Lead, budget)
	if err != nil {
		logger.Error("RpcSolve: failed to build game: %v", err)
		return "", fmt.Errorf("hint: failed to build game: %w", err)
	}
	if err := g.Search(); err != nil {
		logger.Error("RpcSolve: search failed: %v", err)
		return "", fmt.Errorf("hint: search failed: %w", err)
	}

	resp := SolveResponse{ForcedWin: g.HasForcedWin()}
	if resp.ForcedWin {
		token, err := tokens.Issue(hands, req.Lead)
		if err != nil {
			logger.Error("RpcSolve: failed to issue replay token: %v", err)
			return "", fmt.Errorf("hint: failed to issue replay token: %w", err)
		}
		resp.ReplayToken = token
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("hint: failed to marshal response: %w", err)
	}
	return string(out), nil
}

// ReplayRequest is the JSON payload RpcFetchReplay expects: a replay token
// from a prior Solve call, and the path of child indices (each chosen by
// ChildrenOf order) descended from the root to reach the node to inspect.
// An empty path asks for the root.
type ReplayRequest struct {
	Token string `json:"token"`
	Path  []int  `json:"path"`
}

// ReplayNode describes one node of the proven tree: the move played to
// reach it, whose turn follows, the search's verdict for its subtree, and
// the rendered moves of its surviving children (in walk order).
type ReplayNode struct {
	Move     string   `json:"move"`
	Turn     int      `json:"turn"`
	PassFlag bool     `json:"pass_flag"`
	Children []string `json:"children"`
}

// RpcFetchReplay re-solves the game a replay token was issued for (the
// search is deterministic and cheap to redo, so the server need not keep
// the arena alive between calls) and returns the node reached by walking
// Path from the root.
func RpcFetchReplay(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req ReplayRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		logger.Error("RpcFetchReplay: failed to unmarshal payload: %v", err)
		return "", fmt.Errorf("hint: failed to unmarshal payload: %w", err)
	}

	hands, lead, err := tokens.Verify(req.Token)
	if err != nil {
		logger.Error("RpcFetchReplay: invalid token: %v", err)
		return "", fmt.Errorf("hint: invalid token: %w", err)
	}

	g, err := game.NewGameWithBudget(hands, lead, config.NodeBudget())
	if err != nil {
		return "", fmt.Errorf("hint: failed to rebuild game: %w", err)
	}
	if err := g.Search(); err != nil {
		return "", fmt.Errorf("hint: search failed: %w", err)
	}
	if !g.HasForcedWin() {
		return "", fmt.Errorf("hint: replay token names a hand with no forced win")
	}

	n := g.RootNode()
	for _, idx := range req.Path {
		children := g.ChildrenOf(n)
		if idx < 0 || idx >= len(children) {
			return "", fmt.Errorf("hint: path index %d out of range (%d children)", idx, len(children))
		}
		n = children[idx]
	}

	st := g.StateOf(n)
	children := g.ChildrenOf(n)
	rendered := make([]string, len(children))
	for i, c := range children {
		rendered[i] = game.MoveOf(g.StateOf(c)).String()
	}

	out, err := json.Marshal(ReplayNode{
		Move:     st.Move.String(),
		Turn:     st.Turn,
		PassFlag: st.PassFlag,
		Children: rendered,
	})
	if err != nil {
		return "", fmt.Errorf("hint: failed to marshal response: %w", err)
	}
	return string(out), nil
}
