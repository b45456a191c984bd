package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/net"
	"github.com/peterkuimelis/debatex/internal/view"
)

var (
	// activeSession is the singleton debate session (one per stdio process).
	activeSession *GameSession
	sessionMu     sync.Mutex

	// options holds the topic store and session defaults, set by main.
	options net.Options
)

// SetOptions sets the topic store and session defaults.
func SetOptions(opts net.Options) {
	if opts.Lang == (language.Tag{}) {
		opts.Lang = view.DefaultLanguage()
	}
	options = opts
}

// RegisterTools adds all debate tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(listTopicsTool(), handleListTopics)
	s.AddTool(startSessionTool(), handleStartSession)
	s.AddTool(selectCardTool(), handleSelectCard)
	s.AddTool(undoTool(), handleUndo)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(returnHomeTool(), handleReturnHome)
}

// --- Tool definitions ---

func listTopicsTool() mcp.Tool {
	return mcp.NewTool("list_topics",
		mcp.WithDescription("List the debate topics with their vocabulary and how much material each stance has, plus the difficulty levels. Read-only."),
	)
}

func startSessionTool() mcp.Tool {
	return mcp.NewTool("start_session",
		mcp.WithDescription("Start a debate. You first build an argument tower by playing hand cards in order "+
			"(assertion, reason, evidence, mini conclusion, all from the same logic group), then answer the rival's "+
			"cross-examination questions, defend against rebuttals and pick a closing. Returns the initial state."),
		mcp.WithString("topic_id", mcp.Required(), mcp.Description("Topic id from list_topics")),
		mcp.WithString("stance", mcp.Description("affirmative or negative (default affirmative)")),
		mcp.WithString("difficulty", mcp.Description("easy, medium or hard")),
		mcp.WithString("mode", mcp.Description("area (default), logic_link or review")),
		mcp.WithNumber("rounds", mcp.Description("Number of battle rounds (default 1)")),
		mcp.WithBoolean("timer", mcp.Description("Enable the 10 second turn timer (default off)")),
		mcp.WithString("lang", mcp.Description("Language for card text: en or ja")),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Play a card from your hand. Waits until scheduled transitions have played out and returns the new state and the events since the last call."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("The id of a card in state.hand")),
	)
}

func undoTool() mcp.Tool {
	return mcp.NewTool("undo",
		mcp.WithDescription("Take the last card of the argument tower back into your hand. Only during construct. Score is not refunded."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current session state and accumulated events without acting. Read-only."),
	)
}

func returnHomeTool() mcp.Tool {
	return mcp.NewTool("return_home",
		mcp.WithDescription("Abandon the current session and return to topic selection."),
	)
}

// --- Tool handlers ---

func handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if options.Store == nil {
		return mcp.NewToolResultError("No topics are loaded."), nil
	}
	var topics []view.TopicDetail
	for _, t := range options.Store.Topics() {
		topics = append(topics, view.BuildTopicDetail(t))
	}
	return mcp.NewToolResultText(respondJSON(map[string]any{
		"topics":       topics,
		"difficulties": view.BuildDifficulties(),
	})), nil
}

func handleStartSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil {
		return mcp.NewToolResultError("A session is already running. Use return_home first."), nil
	}
	if options.Store == nil {
		return mcp.NewToolResultError("No topics are loaded."), nil
	}

	setup := game.Setup{
		TopicID:    request.GetString("topic_id", ""),
		Stance:     request.GetString("stance", ""),
		Difficulty: request.GetString("difficulty", ""),
		Mode:       request.GetString("mode", ""),
		Rounds:     request.GetInt("rounds", 0),
	}
	if setup.TopicID == "" {
		return mcp.NewToolResultError("topic_id is required"), nil
	}

	defaults := options.Defaults
	defaults.TimerEnabled = request.GetBool("timer", false)
	lang := options.Lang
	if tag, ok := view.ParseLanguage(request.GetString("lang", "")); ok {
		lang = tag
	}

	sess, err := NewGameSession(options.Store, setup, defaults, lang, options.Runner)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start session: %v", err), nil
	}
	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error reading session state: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No session is running. Use start_session first."), nil
	}
	cardID := request.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("card_id is required"), nil
	}

	resp, err := activeSession.Play(ctx, cardID)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot play %s: %v", cardID, err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No session is running. Use start_session first."), nil
	}
	resp, err := activeSession.Undo(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Cannot undo: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No session is running. Use start_session first."), nil
	}
	resp, err := activeSession.Observe(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error reading session state: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleReturnHome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession == nil {
		return mcp.NewToolResultError("No session is running."), nil
	}
	sess := activeSession
	activeSession = nil

	resp, err := sess.ReturnHome(ctx)
	if err != nil {
		sess.Close()
		return mcp.NewToolResultErrorf("Error returning home: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
