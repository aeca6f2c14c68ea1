package tui

import (
	"context"
	"fmt"

	"luckycat-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// loadProfile fetches the current user's profile plus both sides of the
// social graph. The follow-requests tab is the followers list.
func (m *appModel) loadProfile() tea.Cmd {
	userID := m.sess.UserID()
	if userID == 0 {
		return m.flashError("Your profile is not loaded yet")
	}
	m.profSeq++
	seq := m.profSeq
	backend := m.backend
	return func() tea.Msg {
		prof, err := backend.Profile(context.Background(), userID)
		if err != nil {
			return profileLoadedMsg{seq: seq, err: err}
		}
		followers, err := backend.Followers(context.Background(), userID)
		if err != nil {
			return profileLoadedMsg{seq: seq, err: err}
		}
		following, err := backend.Following(context.Background(), userID)
		return profileLoadedMsg{seq: seq, prof: prof, followers: followers, following: following, err: err}
	}
}

func (m *appModel) handleProfileLoaded(msg profileLoadedMsg) tea.Cmd {
	if msg.seq != m.profSeq {
		return nil
	}
	if msg.err != nil {
		m.logf("profile: load: %v", msg.err)
		return m.flashError("Could not load profile: " + msg.err.Error())
	}
	m.profile = msg.prof

	followerItems := make([]list.Item, 0, len(msg.followers))
	for _, p := range msg.followers {
		followerItems = append(followerItems, profileItem{prof: p})
	}
	m.followers.SetItems(followerItems)

	followingItems := make([]list.Item, 0, len(msg.following))
	for _, p := range msg.following {
		followingItems = append(followingItems, profileItem{prof: p})
	}
	m.following.SetItems(followingItems)
	return nil
}

func (m *appModel) toggleFollow(p model.Profile) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		return followToggledMsg{profileID: p.ID, err: backend.Follow(context.Background(), p.ID)}
	}
}

func (m *appModel) handleFollowToggled(msg followToggledMsg) tea.Cmd {
	if msg.err != nil {
		m.logf("profile: follow %d: %v", msg.profileID, msg.err)
		return m.flashError("Could not update follow: " + msg.err.Error())
	}
	return m.loadProfile()
}

func (m appModel) renderProfileView() string {
	head := styleHeader().Render(m.profile.Username)
	meta := styleMuted().Render(fmt.Sprintf("%d followers · %d following", m.profile.FollowersCount, m.profile.FollowingCount))

	tabs := "[ followers ]  following "
	active := m.followers
	if m.profileTab == 1 {
		tabs = " followers  [ following ]"
		active = m.following
	}
	help := styleMuted().Render("tab: switch tab   f: follow/unfollow   r: reload")
	return head + "\n" + meta + "\n\n" + styleInfo().Render(tabs) + "\n" + active.View() + "\n" + help
}
