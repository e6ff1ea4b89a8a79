package gameapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionController serves maze sessions and the player's difficulty progress.
type SessionController struct {
	sessions      i.GameSessionManager
	progress      i.ProgressTracker
	logger        i.Logger
	frameInterval time.Duration
}

// Config holds the SessionController's collaborators.
type Config struct {
	Sessions      i.GameSessionManager
	Progress      i.ProgressTracker
	Logger        i.Logger
	FrameInterval time.Duration // delay between streamed frames
}

// NewSessionController initializes a SessionController.
func NewSessionController(c Config) (*SessionController, error) {
	if c.Sessions == nil || c.Progress == nil || c.Logger == nil {
		return nil, errors.New("session controller needs a session manager, a progress tracker and a logger")
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 50 * time.Millisecond
	}

	return &SessionController{
		sessions:      c.Sessions,
		progress:      c.Progress,
		logger:        c.Logger,
		frameInterval: c.FrameInterval,
	}, nil
}

// RegisterPublic registers public routes.
func (sc *SessionController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (sc *SessionController) RegisterProtected(route *gin.RouterGroup) {
	sessions := route.Group("/sessions")
	{
		sessions.POST("", sc.create)
		sessions.GET("/:ID", sc.get)
		sessions.POST("/:ID/tick", sc.tick)
		sessions.POST("/:ID/move", sc.move)
		sessions.GET("/:ID/stream", sc.stream)
		sessions.DELETE("/:ID", sc.close)
	}

	progress := route.Group("/progress")
	{
		progress.GET("", sc.level)
		progress.DELETE("", sc.reset)
		progress.GET("/runs", sc.runs)
	}
}

// create starts a maze at the player's difficulty.
func (sc *SessionController) create(ctx *gin.Context) {
	playerID, ok := player(ctx)
	if !ok {
		return
	}

	var request NewSessionRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.Mode.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": game.ErrInvalidMode.Error()})
		return
	}

	view, err := sc.sessions.NewSession(ctx.Request.Context(), playerID, request.Mode)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while creating maze"})
		return
	}

	ctx.JSON(http.StatusCreated, view)
}

// get returns the session's current snapshot.
func (sc *SessionController) get(ctx *gin.Context) {
	sessionID, ok := sc.ownedSession(ctx)
	if !ok {
		return
	}

	view, err := sc.sessions.Session(sessionID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// tick advances the session by the requested number of frames.
func (sc *SessionController) tick(ctx *gin.Context) {
	sessionID, ok := sc.ownedSession(ctx)
	if !ok {
		return
	}

	var request TickRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	view, err := sc.sessions.Tick(ctx.Request.Context(), sessionID, request.Steps)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// move walks the player of an interactive session.
func (sc *SessionController) move(ctx *gin.Context) {
	sessionID, ok := sc.ownedSession(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := sc.sessions.Move(ctx.Request.Context(), sessionID, request.Direction)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// close discards the session.
func (sc *SessionController) close(ctx *gin.Context) {
	sessionID, ok := sc.ownedSession(ctx)
	if !ok {
		return
	}

	if err := sc.sessions.Close(sessionID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// level reports the player's difficulty.
func (sc *SessionController) level(ctx *gin.Context) {
	playerID, ok := player(ctx)
	if !ok {
		return
	}

	level, err := sc.progress.Level(ctx.Request.Context(), playerID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while loading progress"})
		return
	}

	ctx.JSON(http.StatusOK, &ProgressResponse{
		Level:     level,
		Levels:    sc.progress.Levels(),
		Dimension: sc.progress.Dimension(level),
	})
}

// reset sends the player back to the easiest maze and forgets the learned policy.
func (sc *SessionController) reset(ctx *gin.Context) {
	playerID, ok := player(ctx)
	if !ok {
		return
	}

	if err := sc.progress.Reset(ctx.Request.Context(), playerID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while resetting progress"})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// runs lists the player's finished mazes, newest first.
func (sc *SessionController) runs(ctx *gin.Context) {
	playerID, ok := player(ctx)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	runs, err := sc.progress.Runs(ctx.Request.Context(), playerID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while loading runs"})
		return
	}
	ctx.JSON(http.StatusOK, runs)
}

// ownedSession parses the :ID parameter and checks that the session belongs to the caller.
// On failure it writes the response and reports false.
func (sc *SessionController) ownedSession(ctx *gin.Context) (uuid.UUID, bool) {
	playerID, ok := player(ctx)
	if !ok {
		return uuid.Nil, false
	}

	sessionID, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "id not found"})
		return uuid.Nil, false
	}

	owner, err := sc.sessions.Owner(sessionID)
	if err != nil || owner != playerID {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No Session"})
		return uuid.Nil, false
	}
	return sessionID, true
}

func player(ctx *gin.Context) (uuid.UUID, bool) {
	playerID, err := identity.PlayerID(ctx)
	if err != nil {
		ctx.Status(http.StatusUnauthorized)
		ctx.Abort()
		return uuid.Nil, false
	}
	return playerID, true
}

func writeError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, maze.ErrInvalidDirection):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrNotPlaying), errors.Is(err, game.ErrAutonomousMoves):
		status = http.StatusConflict
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
