package models

// Kind is the discriminator of the Item tagged union.
type Kind string

const (
	// KindJournalEntry is a free-form journal page.
	KindJournalEntry Kind = "journal_entry"

	// KindMoodEntry is a single mood check-in.
	KindMoodEntry Kind = "mood_entry"

	// KindHabit is a tracked recurring habit.
	KindHabit Kind = "habit"

	// KindGoal is a goal with optional milestones.
	KindGoal Kind = "goal"

	// KindReminder is a scheduled reminder.
	KindReminder Kind = "reminder"

	// KindChatSession is a stored conversation with the assistant.
	KindChatSession Kind = "chat_session"
)

// Entity is implemented by every payload type that can travel inside an Item.
type Entity interface {
	Kind() Kind
}

var entityRegistry = map[Kind]func() Entity{
	KindJournalEntry: func() Entity { return &JournalEntry{} },
	KindMoodEntry:    func() Entity { return &MoodEntry{} },
	KindHabit:        func() Entity { return &Habit{} },
	KindGoal:         func() Entity { return &Goal{} },
	KindReminder:     func() Entity { return &Reminder{} },
	KindChatSession:  func() Entity { return &ChatSession{} },
}

// KnownKind reports whether k has a registered entity type.
func KnownKind(k Kind) bool {
	_, ok := entityRegistry[k]
	return ok
}

// JournalEntry is a journal page written by the user.
type JournalEntry struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

func (*JournalEntry) Kind() Kind { return KindJournalEntry }

// MoodEntry is a mood check-in on a 1..10 scale.
type MoodEntry struct {
	Score    int      `json:"score"`
	Emotions []string `json:"emotions,omitempty"`
	Note     string   `json:"note,omitempty"`
}

func (*MoodEntry) Kind() Kind { return KindMoodEntry }

// Habit is a recurring behaviour the user tracks.
type Habit struct {
	Name        string   `json:"name"`
	Frequency   string   `json:"frequency"`
	CompletedOn []string `json:"completedOn,omitempty"`
	Streak      int      `json:"streak"`
}

func (*Habit) Kind() Kind { return KindHabit }

// Goal is a target with an optional list of milestones.
type Goal struct {
	Title      string      `json:"title"`
	TargetDate string      `json:"targetDate,omitempty"`
	Progress   int         `json:"progress"`
	Milestones []Milestone `json:"milestones,omitempty"`
}

func (*Goal) Kind() Kind { return KindGoal }

// Milestone is one step towards a Goal.
type Milestone struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Reminder is a notification the user scheduled.
type Reminder struct {
	Title   string `json:"title"`
	At      string `json:"at"`
	Repeat  string `json:"repeat,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (*Reminder) Kind() Kind { return KindReminder }

// ChatSession is a stored conversation.
type ChatSession struct {
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

func (*ChatSession) Kind() Kind { return KindChatSession }

// ChatMessage is a single turn inside a ChatSession.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
