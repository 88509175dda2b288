package bsky

import (
	"encoding/json"

	"github.com/skyline-tui/skyline/infra/auth"
)

// Wire shapes of the app.bsky / com.atproto lexicons, limited to the fields the client reads.

type sessionResponse struct {
	DID        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
}

func (r sessionResponse) session(service string) auth.Session {
	return auth.Session{
		DID:        r.DID,
		Handle:     r.Handle,
		AccessJwt:  r.AccessJwt,
		RefreshJwt: r.RefreshJwt,
		Service:    service,
	}
}

type profileViewBasic struct {
	DID         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

type profileViewDetailed struct {
	profileViewBasic
	Description    string `json:"description"`
	FollowersCount int    `json:"followersCount"`
	FollowsCount   int    `json:"followsCount"`
	PostsCount     int    `json:"postsCount"`
	Viewer         *struct {
		Following string `json:"following"`
	} `json:"viewer"`
}

type strongRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

type replyRef struct {
	Root   strongRef `json:"root"`
	Parent strongRef `json:"parent"`
}

// postRecord is app.bsky.feed.post. Text is a pointer so a missing field
// can be told apart from an empty one.
type postRecord struct {
	Type      string    `json:"$type,omitempty"`
	Text      *string   `json:"text"`
	CreatedAt string    `json:"createdAt"`
	Reply     *replyRef `json:"reply,omitempty"`
}

type postView struct {
	URI         string           `json:"uri"`
	CID         string           `json:"cid"`
	Author      profileViewBasic `json:"author"`
	Record      json.RawMessage  `json:"record"`
	Embed       *embedView       `json:"embed"`
	ReplyCount  int              `json:"replyCount"`
	RepostCount int              `json:"repostCount"`
	LikeCount   int              `json:"likeCount"`
	IndexedAt   string           `json:"indexedAt"`
	Viewer      *struct {
		Like   string `json:"like"`
		Repost string `json:"repost"`
	} `json:"viewer"`
}

type imageView struct {
	Thumb    string `json:"thumb"`
	Fullsize string `json:"fullsize"`
	Alt      string `json:"alt"`
}

// embedView covers images#view, record#view and recordWithMedia#view.
// Record is left raw: its shape depends on Type.
type embedView struct {
	Type   string          `json:"$type"`
	Images []imageView     `json:"images,omitempty"`
	Record json.RawMessage `json:"record,omitempty"`
	Media  *embedView      `json:"media,omitempty"`
}

// viewRecord is app.bsky.embed.record#viewRecord (or a notFound/blocked stand-in).
type viewRecord struct {
	Type        string           `json:"$type"`
	URI         string           `json:"uri"`
	CID         string           `json:"cid"`
	Author      profileViewBasic `json:"author"`
	Value       json.RawMessage  `json:"value"`
	Embeds      []embedView      `json:"embeds"`
	ReplyCount  int              `json:"replyCount"`
	RepostCount int              `json:"repostCount"`
	LikeCount   int              `json:"likeCount"`
	IndexedAt   string           `json:"indexedAt"`
}

type feedViewPost struct {
	Post   postView `json:"post"`
	Reason *struct {
		Type string           `json:"$type"`
		By   profileViewBasic `json:"by"`
	} `json:"reason"`
}

type feedResponse struct {
	Feed   []feedViewPost `json:"feed"`
	Cursor string         `json:"cursor"`
}

// threadNode is threadViewPost, notFoundPost or blockedPost.
type threadNode struct {
	Type     string       `json:"$type"`
	Post     *postView    `json:"post"`
	Parent   *threadNode  `json:"parent"`
	Replies  []threadNode `json:"replies"`
	NotFound bool         `json:"notFound"`
	Blocked  bool         `json:"blocked"`
}

type threadResponse struct {
	Thread threadNode `json:"thread"`
}

type postsResponse struct {
	Posts []postView `json:"posts"`
}

type notificationView struct {
	URI           string           `json:"uri"`
	CID           string           `json:"cid"`
	Author        profileViewBasic `json:"author"`
	Reason        string           `json:"reason"`
	ReasonSubject string           `json:"reasonSubject"`
	Record        json.RawMessage  `json:"record"`
	IsRead        bool             `json:"isRead"`
	IndexedAt     string           `json:"indexedAt"`
}

type notificationsResponse struct {
	Notifications []notificationView `json:"notifications"`
	Cursor        string             `json:"cursor"`
}

type createRecordRequest struct {
	Repo       string `json:"repo"`
	Collection string `json:"collection"`
	Record     any    `json:"record"`
}

type deleteRecordRequest struct {
	Repo       string `json:"repo"`
	Collection string `json:"collection"`
	Rkey       string `json:"rkey"`
}

type subjectRecord struct {
	Type      string    `json:"$type"`
	Subject   strongRef `json:"subject"`
	CreatedAt string    `json:"createdAt"`
}

type followRecord struct {
	Type      string `json:"$type"`
	Subject   string `json:"subject"`
	CreatedAt string `json:"createdAt"`
}
