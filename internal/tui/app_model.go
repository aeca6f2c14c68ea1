package tui

import (
	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configure the program on startup. FocusRequestID/FocusMessageID are
// the deep-link parameters carried by notification click-throughs and the
// `requests --focus/--message` flags.
type Options struct {
	Backend Backend
	Session SessionState
	Logf    func(format string, args ...any)

	StartView      string // "", "feed", "requests", "notifications", "profile"
	FocusRequestID int
	FocusMessageID int
}

type appModel struct {
	backend Backend
	sess    SessionState
	logf    func(format string, args ...any)

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	view  view
	modal modalKind

	flashText string
	flashErr  bool
	flashSeq  int

	// Login form.
	loginUser  textinput.Model
	loginPass  textinput.Model
	loginFocus int
	loginErr   string
	loggingIn  bool

	// Sitting-request negotiation view. selectedReq == 0 is Unselected.
	requestsList list.Model
	recvReqs     []model.SittingRequest
	sentReqs     []model.SittingRequest
	merged       []model.RequestRef
	reqSeq       int
	reqPending   int
	selectedReq  int

	msgSeq      int
	msgsLoading bool
	messages    []model.SittingMessage
	chatVP      viewport.Model
	chatCursor  int
	composer    textarea.Model
	composerOn  bool

	pendingFocusReq int
	pendingFocusMsg int
	scrollSeq       int

	// Notification feed.
	notifsList list.Model
	notifs     []model.Notification
	notifSeq   int
	notifsBusy bool

	// Post feed + open post.
	feedList     list.Model
	feedPosts    []model.Post
	feedSeq      int
	feedNext     string
	feedPrev     string
	openPost     *model.Post
	openPostSeq  int
	highlightCmt int
	commentIdx   int
	commentInput textarea.Model
	composerCmt  bool

	// Profile.
	profile    model.Profile
	profSeq    int
	profileTab int // 0 followers (follow requests land here), 1 following
	followers  list.Model
	following  list.Model

	// Modal state.
	modalMsgID     int
	modalCommentID int
	modalText      textarea.Model
	confirmFocus   confirmModalFocus
}

func newAppModel(opts Options) appModel {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	m := appModel{
		backend: opts.Backend,
		sess:    opts.Session,
		logf:    logf,
		view:    viewFeed,

		pendingFocusReq: opts.FocusRequestID,
		pendingFocusMsg: opts.FocusMessageID,
	}

	switch opts.StartView {
	case "requests":
		m.view = viewRequests
	case "notifications":
		m.view = viewNotifications
	case "profile":
		m.view = viewProfile
	}
	if !m.sess.IsAuthenticated() {
		m.view = viewLogin
	}

	m.loginUser = textinput.New()
	m.loginUser.Placeholder = "username"
	m.loginUser.Focus()
	m.loginPass = textinput.New()
	m.loginPass.Placeholder = "password"
	m.loginPass.EchoMode = textinput.EchoPassword

	m.requestsList = newList("Requests", "Sent and received sitting requests", []list.Item{})
	m.notifsList = newList("Notifications", "Recent activity", []list.Item{})
	m.feedList = newList("Feed", "Cat-sitting posts", []list.Item{})
	m.followers = newList("Followers", "Follow requests land here", []list.Item{})
	m.following = newList("Following", "Profiles you follow", []list.Item{})

	m.chatVP = viewport.New(0, 0)

	m.composer = textarea.New()
	m.composer.Placeholder = "Write a message…"
	m.composer.SetHeight(3)
	m.composer.ShowLineNumbers = false

	m.commentInput = textarea.New()
	m.commentInput.Placeholder = "Write a comment…"
	m.commentInput.SetHeight(3)
	m.commentInput.ShowLineNumbers = false

	m.modalText = textarea.New()
	m.modalText.SetHeight(4)
	m.modalText.ShowLineNumbers = false

	return m
}

func (m appModel) Init() tea.Cmd {
	switch m.view {
	case viewLogin:
		return textinput.Blink
	case viewRequests:
		return m.loadRequests()
	case viewNotifications:
		return m.loadNotifications()
	case viewProfile:
		return m.loadProfile()
	default:
		return m.loadFeed("")
	}
}

func (m *appModel) resizeLists() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.notifsList.SetSize(w, h)
	m.feedList.SetSize(w, h)
	m.followers.SetSize(w, h)
	m.following.SetSize(w, h)

	if m.splitLayout() {
		m.requestsList.SetSize(w/2, h)
	} else {
		m.requestsList.SetSize(w, h)
	}
	m.resizeChat()
}

// splitLayout reports whether the negotiation view renders master and detail
// side by side. Below the breakpoint the detail becomes an overlay.
func (m appModel) splitLayout() bool {
	return m.width >= narrowLayoutW
}
