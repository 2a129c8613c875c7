package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/geocoder89/lentpath/internal/apperr"
	"github.com/geocoder89/lentpath/internal/domain/content"
	state "github.com/geocoder89/lentpath/internal/domain/session"
	"github.com/geocoder89/lentpath/internal/domain/user"
	"github.com/geocoder89/lentpath/internal/session"
)

const (
	actionLogin    = "login"
	actionRegister = "register"
)

// AuthMetrics counts login and registration outcomes.
// *observability.Prom implements it.
type AuthMetrics interface {
	ObserveAuth(action, result string)
}

type PagesHandler struct {
	store      sessions.Store
	workspaces *session.Manager
	log        *slog.Logger
	metrics    AuthMetrics

	usersSheet   string
	contentSheet string
}

type PagesConfig struct {
	UsersSheet   string
	ContentSheet string
}

func NewPagesHandler(store sessions.Store, workspaces *session.Manager, log *slog.Logger, metrics AuthMetrics, cfg PagesConfig) *PagesHandler {
	return &PagesHandler{
		store:        store,
		workspaces:   workspaces,
		log:          log,
		metrics:      metrics,
		usersSheet:   cfg.UsersSheet,
		contentSheet: cfg.ContentSheet,
	}
}

type LoginForm struct {
	Email    string `form:"email" binding:"omitempty,max=320"`
	Password string `form:"password"`
}

type RegisterForm struct {
	Email    string `form:"email" binding:"omitempty,max=320"`
	Password string `form:"password"`
}

type page struct {
	Notices   []session.Flash
	Flashes   []session.Flash
	CSRFField template.HTML

	Email string
	Name  string
	Today string
	Entry *content.Entry
	Hint  string
}

// visit is the per-request view of a session.
type visit struct {
	sess  *sessions.Session
	sid   string
	state state.State
	ws    *session.Workspace
}

// begin loads the session and its workspace. It answers the request itself and
// returns nil when the session backend cannot be read.
func (h *PagesHandler) begin(ctx *gin.Context) *visit {
	sess, err := h.store.Get(ctx.Request, session.CookieName)
	if errors.Is(err, session.ErrBackendUnavailable) {
		RespondInternal(ctx, h.log, "could not load session", err)
		return nil
	}
	if err != nil {
		// tampered or expired cookie, gorilla hands back a fresh session
		h.log.DebugContext(ctx.Request.Context(), "session_decode_failed", "err", err)
	}

	sid := session.ID(sess)

	return &visit{
		sess:  sess,
		sid:   sid,
		state: session.LoadState(sess),
		ws:    h.workspaces.Workspace(ctx.Request.Context(), sid),
	}
}

func (h *PagesHandler) finish(ctx *gin.Context, v *visit) bool {
	session.SaveState(v.sess, v.state)

	if err := v.sess.Save(ctx.Request, ctx.Writer); err != nil {
		RespondInternal(ctx, h.log, "could not save session", err)
		return false
	}

	return true
}

func (h *PagesHandler) redirectHome(ctx *gin.Context, v *visit) {
	if h.finish(ctx, v) {
		ctx.Redirect(http.StatusSeeOther, "/")
	}
}

// Show renders the screen of the current phase.
func (h *PagesHandler) Show(ctx *gin.Context) {
	v := h.begin(ctx)
	if v == nil {
		return
	}
	v.ws.Lock()
	defer v.ws.Unlock()

	p := page{
		Notices:   h.notices(v.ws),
		Flashes:   session.Flashes(v.sess),
		CSRFField: csrf.TemplateField(ctx.Request),
	}

	name := "login.html"

	switch v.state.Phase {
	case state.Registering:
		name = "register.html"

	case state.LoggedIn:
		name = "content.html"
		p.Email = v.state.Email
		p.Name = user.DisplayName(v.state.Email)
		p.Today = v.ws.Daily.TodayKey()

		entry, err := v.ws.Daily.Today()
		if err == nil {
			p.Entry = &entry
		} else {
			p.Hint = contentHint(h.contentSheet, err)
			if !apperr.Is(err, apperr.KindNotFound) {
				h.log.WarnContext(ctx.Request.Context(), "content_unavailable", "date", p.Today, "err", err)
			}
		}
	}

	if !h.finish(ctx, v) {
		return
	}

	ctx.HTML(http.StatusOK, name, p)
}

func (h *PagesHandler) notices(ws *session.Workspace) []session.Flash {
	var out []session.Flash

	if err := ws.Users.LoadErr(); err != nil {
		out = append(out, openNotice(h.usersSheet, err))
	} else if ws.Users.Len() == 0 {
		out = append(out, session.Flash{Level: session.FlashWarning, Text: noticeUsersEmpty})
	}

	if err := ws.Content.LoadErr(); err != nil {
		out = append(out, openNotice(h.contentSheet, err))
	} else if ws.Content.Len() == 0 {
		out = append(out, session.Flash{Level: session.FlashWarning, Text: noticeContentEmpty})
	}

	return out
}

func (h *PagesHandler) Login(ctx *gin.Context) {
	v := h.begin(ctx)
	if v == nil {
		return
	}
	v.ws.Lock()
	defer v.ws.Unlock()

	if v.state.Phase != state.LoggedOut {
		h.redirectHome(ctx, v)
		return
	}

	var form LoginForm
	if fields, ok := BindForm(ctx, &form); !ok {
		h.flashFields(v, fields)
		h.redirectHome(ctx, v)
		return
	}

	u, err := v.ws.Auth.Login(ctx.Request.Context(), form.Email, form.Password)
	if err != nil {
		h.reject(ctx, v, actionLogin, err)
		h.redirectHome(ctx, v)
		return
	}

	if err := v.state.LogIn(u.Email); err != nil {
		h.redirectHome(ctx, v)
		return
	}

	h.observe(actionLogin, "ok")
	h.log.InfoContext(ctx.Request.Context(), "login_succeeded", "email", u.Email)

	h.redirectHome(ctx, v)
}

func (h *PagesHandler) StartRegistration(ctx *gin.Context) {
	h.transition(ctx, (*state.State).StartRegistration)
}

func (h *PagesHandler) CancelRegistration(ctx *gin.Context) {
	h.transition(ctx, (*state.State).CancelRegistration)
}

func (h *PagesHandler) Register(ctx *gin.Context) {
	v := h.begin(ctx)
	if v == nil {
		return
	}
	v.ws.Lock()
	defer v.ws.Unlock()

	if v.state.Phase != state.Registering {
		h.redirectHome(ctx, v)
		return
	}

	var form RegisterForm
	if fields, ok := BindForm(ctx, &form); !ok {
		h.flashFields(v, fields)
		h.redirectHome(ctx, v)
		return
	}

	if err := v.ws.Auth.Register(ctx.Request.Context(), form.Email, form.Password); err != nil {
		h.reject(ctx, v, actionRegister, err)
		h.redirectHome(ctx, v)
		return
	}

	_ = v.state.CompleteRegistration()
	session.AddFlash(v.sess, session.FlashSuccess, msgRegistered)

	h.observe(actionRegister, "ok")
	h.log.InfoContext(ctx.Request.Context(), "registration_succeeded", "email", user.NormalizeEmail(form.Email))

	h.redirectHome(ctx, v)
}

// Logout ends the session: the workspace is dropped and the next request
// starts with fresh snapshots.
func (h *PagesHandler) Logout(ctx *gin.Context) {
	v := h.begin(ctx)
	if v == nil {
		return
	}
	v.ws.Lock()
	defer v.ws.Unlock()

	if err := v.state.LogOut(); err == nil {
		h.workspaces.Drop(v.sid)
		session.RotateID(v.sess)
	}

	h.redirectHome(ctx, v)
}

// transition applies a move that needs no input. An invalid move is ignored.
func (h *PagesHandler) transition(ctx *gin.Context, move func(*state.State) error) {
	v := h.begin(ctx)
	if v == nil {
		return
	}

	if err := move(&v.state); err != nil {
		h.log.DebugContext(ctx.Request.Context(), "transition_ignored", "err", err)
	}

	h.redirectHome(ctx, v)
}

func (h *PagesHandler) reject(ctx *gin.Context, v *visit, action string, err error) {
	flash, known := authMessage(err, action)
	session.AddFlash(v.sess, flash.Level, flash.Text)

	h.observe(action, apperr.KindOf(err).String())

	event := "login_failed"
	if action == actionRegister {
		event = "registration_failed"
	}

	if known {
		h.log.InfoContext(ctx.Request.Context(), event, "err", err)
	} else {
		h.log.ErrorContext(ctx.Request.Context(), event, "err", err)
	}
}

func (h *PagesHandler) flashFields(v *visit, fields []FieldError) {
	for _, f := range fields {
		session.AddFlash(v.sess, session.FlashWarning, f.Message)
	}
}

func (h *PagesHandler) observe(action, result string) {
	if h.metrics != nil {
		h.metrics.ObserveAuth(action, result)
	}
}
