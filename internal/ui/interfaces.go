package ui

import "time"

type Controller interface {
	OnSelectDestination(dest Destination)
	OnOpenArticle(articleID string)
	OnCloseArticle()
	OnToggleBookmark(articleID string)
	OnToggleFollowTopic(topicID string)
	OnRefresh()
	OnResize(cols, rows int)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetDestination(dest Destination)
	SetFeed(rows []ArticleRow)
	SetSaved(rows []ArticleRow)
	SetTopics(rows []TopicRow)
	SetReader(state ReaderState)
	SetOnline(online bool)
	SetSyncing(syncing bool)
	FlashStatus(msg string)
}

// Destination is one of the three navigation targets. Every chrome variant
// presents the same destinations; only the presentation differs.
type Destination int

const (
	DestForYou Destination = iota
	DestSaved
	DestInterests
)

func Destinations() []Destination {
	return []Destination{DestForYou, DestSaved, DestInterests}
}

func (d Destination) Title() string {
	switch d {
	case DestForYou:
		return "For You"
	case DestSaved:
		return "Saved"
	case DestInterests:
		return "Interests"
	default:
		return "Unknown"
	}
}

// Abbrev is the three-letter form used by the rail chrome.
func (d Destination) Abbrev() string {
	switch d {
	case DestForYou:
		return "FOR"
	case DestSaved:
		return "SAV"
	case DestInterests:
		return "INT"
	default:
		return "???"
	}
}

// ID is the stable identifier persisted in the session log.
func (d Destination) ID() string {
	switch d {
	case DestForYou:
		return "for_you"
	case DestSaved:
		return "saved"
	case DestInterests:
		return "interests"
	default:
		return "unknown"
	}
}

func DestinationFromID(id string) (Destination, bool) {
	for _, d := range Destinations() {
		if d.ID() == id {
			return d, true
		}
	}
	return DestForYou, false
}

type ArticleRow struct {
	ArticleID   string
	Headline    string
	Summary     string
	SourceName  string
	URL         string
	Topics      []string
	PublishedAt time.Time
	ReadMinutes int
	Bookmarked  bool
	Viewed      bool
}

type TopicRow struct {
	TopicID  string
	Name     string
	Summary  string
	Followed bool
}

type ReaderState struct {
	Visible    bool
	ArticleID  string
	Headline   string
	BodyMD     string
	URL        string
	Bookmarked bool
	WordWrap   int
}
