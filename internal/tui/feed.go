package tui

import (
	"context"
	"fmt"
	"strings"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) loadFeed(pageURL string) tea.Cmd {
	m.feedSeq++
	seq := m.feedSeq
	backend := m.backend
	return func() tea.Msg {
		page, err := backend.Feed(context.Background(), pageURL)
		return feedLoadedMsg{seq: seq, page: page, err: err}
	}
}

func (m *appModel) handleFeedLoaded(msg feedLoadedMsg) tea.Cmd {
	if msg.seq != m.feedSeq {
		return nil
	}
	if msg.err != nil {
		m.logf("feed: load: %v", msg.err)
		return m.flashError("Could not load feed: " + msg.err.Error())
	}
	m.feedPosts = msg.page.Results
	m.feedNext = strOrEmpty(msg.page.Next)
	m.feedPrev = strOrEmpty(msg.page.Previous)
	items := make([]list.Item, 0, len(m.feedPosts))
	for _, p := range m.feedPosts {
		items = append(items, postItem{post: p})
	}
	m.feedList.SetItems(items)
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// loadPost fetches one post with its comments. highlight is a deep-linked
// comment id from a notification, 0 when absent.
func (m *appModel) loadPost(id, highlight int) tea.Cmd {
	m.openPostSeq++
	seq := m.openPostSeq
	backend := m.backend
	return func() tea.Msg {
		post, err := backend.Post(context.Background(), id)
		return postLoadedMsg{seq: seq, post: post, comment: highlight, err: err}
	}
}

func (m *appModel) handlePostLoaded(msg postLoadedMsg) tea.Cmd {
	if msg.seq != m.openPostSeq {
		return nil
	}
	if msg.err != nil {
		m.logf("post: load: %v", msg.err)
		m.view = viewFeed
		return m.flashError("Could not load post: " + msg.err.Error())
	}
	post := msg.post
	m.openPost = &post
	m.highlightCmt = msg.comment
	m.commentIdx = -1
	if msg.comment != 0 {
		for i, c := range post.Comments {
			if c.ID == msg.comment {
				m.commentIdx = i
			}
		}
	}
	return nil
}

func (m *appModel) toggleLike() tea.Cmd {
	if m.openPost == nil {
		return nil
	}
	id := m.openPost.ID
	// Optimistic flip; a reload corrects drift.
	if m.openPost.IsLiked {
		m.openPost.IsLiked = false
		m.openPost.LikesCount--
	} else {
		m.openPost.IsLiked = true
		m.openPost.LikesCount++
	}
	backend := m.backend
	return func() tea.Msg {
		return likeToggledMsg{postID: id, err: backend.LikePost(context.Background(), id)}
	}
}

func (m *appModel) handleLikeToggled(msg likeToggledMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("post: like %d: %v", msg.postID, msg.err)
		return m.flashError("Could not update like: " + msg.err.Error())
	}
	return nil
}

// submitComment optimistically prepends the new comment before the server
// answers; the confirmed payload then replaces the placeholder. This is the
// opposite policy from chat messages, which always re-fetch. Both behaviors
// are deliberate per entity type.
func (m *appModel) submitComment() tea.Cmd {
	if m.openPost == nil {
		return nil
	}
	text := m.commentInput.Value()
	if model.BlankText(text) {
		return nil
	}
	m.commentInput.Reset()
	postID := m.openPost.ID

	localID := -(len(m.openPost.Comments) + 1)
	placeholder := model.Comment{
		ID:       localID,
		Post:     postID,
		Author:   m.sess.Username(),
		AuthorID: m.sess.UserID(),
		Content:  text,
	}
	m.openPost.Comments = append([]model.Comment{placeholder}, m.openPost.Comments...)
	m.openPost.CommentsCount++

	backend := m.backend
	return func() tea.Msg {
		c, err := backend.CreateComment(context.Background(), postID, text)
		return commentSavedMsg{postID: postID, localID: localID, comment: c, err: err}
	}
}

func (m *appModel) saveCommentEdit(commentID int, text string) tea.Cmd {
	if m.openPost == nil || model.BlankText(text) {
		return nil
	}
	postID := m.openPost.ID
	backend := m.backend
	return func() tea.Msg {
		c, err := backend.UpdateComment(context.Background(), postID, commentID, text)
		return commentSavedMsg{postID: postID, comment: c, err: err}
	}
}

func (m *appModel) handleCommentSaved(msg commentSavedMsg) tea.Cmd {
	if m.openPost == nil || m.openPost.ID != msg.postID {
		return nil
	}
	if msg.err != nil {
		m.logf("post: save comment: %v", msg.err)
		return m.flashError("Could not save comment: " + msg.err.Error())
	}
	for i := range m.openPost.Comments {
		c := &m.openPost.Comments[i]
		if (msg.localID != 0 && c.ID == msg.localID) || (msg.localID == 0 && c.ID == msg.comment.ID) {
			*c = msg.comment
			return nil
		}
	}
	return nil
}

func (m *appModel) deleteComment(commentID int) tea.Cmd {
	if m.openPost == nil {
		return nil
	}
	postID := m.openPost.ID
	backend := m.backend
	return func() tea.Msg {
		err := backend.DeleteComment(context.Background(), postID, commentID)
		return commentDeletedMsg{postID: postID, commentID: commentID, err: err}
	}
}

func (m *appModel) handleCommentDeleted(msg commentDeletedMsg) tea.Cmd {
	if m.openPost == nil || m.openPost.ID != msg.postID {
		return nil
	}
	if msg.err != nil {
		m.logf("post: delete comment: %v", msg.err)
		return m.flashError("Could not delete comment: " + msg.err.Error())
	}
	kept := m.openPost.Comments[:0]
	for _, c := range m.openPost.Comments {
		if c.ID != msg.commentID {
			kept = append(kept, c)
		}
	}
	m.openPost.Comments = kept
	if m.openPost.CommentsCount > 0 {
		m.openPost.CommentsCount--
	}
	return nil
}

func (m appModel) renderFeedView() string {
	pager := ""
	if m.feedNext != "" || m.feedPrev != "" {
		pager = styleMuted().Render("n/p: next/previous page")
	}
	head := styleMuted().Render("enter: open   l: like   r: reload   " + pager)
	return head + "\n" + m.feedList.View()
}

func (m appModel) renderPostView() string {
	if m.openPost == nil {
		return styleMuted().Render("Loading post…")
	}
	p := m.openPost
	w := m.width - 4
	if w < 40 {
		w = 40
	}

	like := "♡"
	if p.IsLiked {
		like = "♥"
	}
	var b strings.Builder
	b.WriteString(styleHeader().Render(p.Title))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(fmt.Sprintf("%s · %s · %s %d · 💬 %d · %s",
		p.Author, p.Category, like, p.LikesCount, p.CommentsCount, relTime(p.CreatedAt))))
	b.WriteString("\n\n")
	b.WriteString(renderMarkdown(p.Content, w))
	b.WriteString("\n\n")
	b.WriteString(styleHeader().Render("Comments"))
	b.WriteString("\n")
	if len(p.Comments) == 0 {
		b.WriteString(styleMuted().Render("No comments yet."))
		b.WriteString("\n")
	}
	for i, c := range p.Comments {
		line := fmt.Sprintf("%s: %s", c.Author, c.Content)
		st := lipgloss.NewStyle().Width(w)
		if c.ID == m.highlightCmt || i == m.commentIdx {
			st = st.Bold(true).Foreground(colorAccent)
		}
		b.WriteString(st.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.composerCmt {
		b.WriteString(m.commentInput.View())
		b.WriteString("\n")
		b.WriteString(styleMuted().Render("ctrl+s: post comment   esc: cancel"))
	} else {
		b.WriteString(styleMuted().Render("c: comment   l: like   j/k: select comment   e: edit   x: delete   esc: back"))
	}
	return b.String()
}
