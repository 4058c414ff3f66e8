package api

import (
	"log"
	"net/http"

	"dreamweaver/internal/application"
	"dreamweaver/internal/domain"
	"dreamweaver/internal/infrastructure/audio"

	"github.com/gin-gonic/gin"
)

// DreamHandler は、夢セッションのHTTPハンドラです
type DreamHandler struct {
	sessionService *application.SessionService
}

// NewDreamHandler は新しいDreamHandlerインスタンスを作成します
func NewDreamHandler(sessionService *application.SessionService) *DreamHandler {
	return &DreamHandler{sessionService: sessionService}
}

type createDreamRequest struct {
	Text string `json:"text"`
}

type createExplorationRequest struct {
	Theme string `json:"theme"`
}

// RegisterRoutes は、ルーティングを登録します
func (h *DreamHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/dreams", h.createDream)
		v1.GET("/dreams/:id", h.getDream)
		v1.GET("/dreams/:id/image", h.getDreamImage)
		v1.GET("/dreams/:id/audio", h.getDreamAudio)
		v1.POST("/dreams/:id/explorations", h.createExploration)
		v1.DELETE("/dreams/:id/explorations", h.deleteExploration)
		v1.DELETE("/dreams/:id", h.deleteDream)
	}
}

func (h *DreamHandler) healthCheck(c *gin.Context) {
	success(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dreamweaver",
	})
}

// createDream は、夢を織り上げて新しいセッションを返します
func (h *DreamHandler) createDream(c *gin.Context) {
	var req createDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "リクエストの形式が不正です: "+err.Error())
		return
	}

	session, err := h.sessionService.Weave(c.Request.Context(), req.Text)
	if err != nil {
		log.Printf("[API] 夢の織り上げに失敗: %v", err)
		failWithError(c, err, newSessionView(session))
		return
	}

	log.Printf("[API] 夢を織り上げました: %s", session.ID)
	success(c, http.StatusCreated, newSessionView(session))
}

func (h *DreamHandler) getDream(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, err, nil)
		return
	}

	success(c, http.StatusOK, newSessionView(session))
}

// getDreamImage は、夢の画像をバイナリで返します
func (h *DreamHandler) getDreamImage(c *gin.Context) {
	record, ok := h.record(c)
	if !ok {
		return
	}

	mimeType, data, err := domain.ParseImageDataURI(record.ImageURL())
	if err != nil {
		log.Printf("[API] 画像の取り出しに失敗: %v", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, mimeType, data)
}

// getDreamAudio は、ささやき声をWAVで返します
func (h *DreamHandler) getDreamAudio(c *gin.Context) {
	record, ok := h.record(c)
	if !ok {
		return
	}

	wav, err := audio.EncodeWAV(record.Audio())
	if err != nil {
		log.Printf("[API] WAV変換に失敗: %v", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, audio.WAVMIMEType, wav)
}

// createExploration は、テーマを探索してオーバーレイを設定します
func (h *DreamHandler) createExploration(c *gin.Context) {
	var req createExplorationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "リクエストの形式が不正です: "+err.Error())
		return
	}

	session, err := h.sessionService.Explore(c.Request.Context(), c.Param("id"), req.Theme)
	if err != nil {
		log.Printf("[API] テーマの探索に失敗: %v", err)
		failWithError(c, err, nil)
		return
	}

	success(c, http.StatusOK, newSessionView(session))
}

// deleteExploration は、オーバーレイを閉じてscapeに戻ります
func (h *DreamHandler) deleteExploration(c *gin.Context) {
	session, err := h.sessionService.ReturnToScape(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, err, nil)
		return
	}

	success(c, http.StatusOK, newSessionView(session))
}

// deleteDream は、セッションを破棄します
func (h *DreamHandler) deleteDream(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessionService.Reset(c.Request.Context(), id); err != nil {
		failWithError(c, err, nil)
		return
	}

	success(c, http.StatusOK, gin.H{"id": id})
}

// record は、scape状態のセッションの夢を取得します
// 取得できない場合はレスポンスを書き込んで false を返します
func (h *DreamHandler) record(c *gin.Context) (*domain.DreamscapeRecord, bool) {
	session, err := h.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWithError(c, err, nil)
		return nil, false
	}

	if session.Record == nil {
		failWithError(c, domain.ErrInvalidState, nil)
		return nil, false
	}

	return session.Record, true
}
