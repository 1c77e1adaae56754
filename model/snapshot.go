package model

// Snapshot is the full document-store state. Every collection is a flat
// slice of records keyed by id; the store persists the snapshot as one JSON
// document.
type Snapshot struct {
	Users          []User          `json:"users"`
	Posts          []Post          `json:"posts"`
	Comments       []Comment       `json:"comments"`
	Ratings        []Rating        `json:"ratings"`
	FriendRequests []FriendRequest `json:"friendRequests"`
	Friendships    []Friendship    `json:"friendships"`
	AITasks        []AITask        `json:"aiTasks"`
	VideoJobs      []VideoJob      `json:"videoJobs"`
	Files          []FileRecord    `json:"files"`
	SensitiveWords []string        `json:"sensitiveWords"`
}

// EnsureCollections replaces nil slices with empty ones so JSON output
// always carries every collection. Idempotent.
func (s *Snapshot) EnsureCollections() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
	if s.Ratings == nil {
		s.Ratings = []Rating{}
	}
	if s.FriendRequests == nil {
		s.FriendRequests = []FriendRequest{}
	}
	if s.Friendships == nil {
		s.Friendships = []Friendship{}
	}
	if s.AITasks == nil {
		s.AITasks = []AITask{}
	}
	if s.VideoJobs == nil {
		s.VideoJobs = []VideoJob{}
	}
	if s.Files == nil {
		s.Files = []FileRecord{}
	}
	if s.SensitiveWords == nil {
		s.SensitiveWords = []string{}
	}
}

// User returns the non-deleted user with the given id, or nil.
func (s *Snapshot) User(id string) *User {
	for i := range s.Users {
		if s.Users[i].ID == id && !s.Users[i].Deleted {
			return &s.Users[i]
		}
	}
	return nil
}

// UserByPhone returns the non-deleted user with the given phone, or nil.
func (s *Snapshot) UserByPhone(phone string) *User {
	for i := range s.Users {
		if s.Users[i].Phone == phone && !s.Users[i].Deleted {
			return &s.Users[i]
		}
	}
	return nil
}

// Post returns the post with the given id, or nil.
func (s *Snapshot) Post(id string) *Post {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return &s.Posts[i]
		}
	}
	return nil
}

// File returns the file record with the given id, or nil.
func (s *Snapshot) File(id string) *FileRecord {
	for i := range s.Files {
		if s.Files[i].ID == id {
			return &s.Files[i]
		}
	}
	return nil
}

// ReplaceAITask swaps in the task record for its id, appending if absent.
// Prior state for the id is discarded; only the latest record is kept.
func (s *Snapshot) ReplaceAITask(t AITask) {
	for i := range s.AITasks {
		if s.AITasks[i].ID == t.ID {
			s.AITasks[i] = t
			return
		}
	}
	s.AITasks = append(s.AITasks, t)
}

// ReplaceVideoJob swaps in the job record for its id, appending if absent.
func (s *Snapshot) ReplaceVideoJob(j VideoJob) {
	for i := range s.VideoJobs {
		if s.VideoJobs[i].ID == j.ID {
			s.VideoJobs[i] = j
			return
		}
	}
	s.VideoJobs = append(s.VideoJobs, j)
}
