package session

// File is one uploaded image in the working set. Identity is the
// server-assigned ID; the filename is display-only.
type File struct {
	ID       string
	Filename string
	Selected bool
}

// FileRegistry owns the ordered set of known files and their selection flags.
// All mutations are synchronous and immediately observable.
type FileRegistry struct {
	files []File
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{}
}

// Add appends a file, selected by default. A duplicate ID is ignored so the
// no-duplicate invariant holds no matter what the caller feeds in.
func (r *FileRegistry) Add(id, filename string) bool {
	if r.Has(id) {
		return false
	}
	r.files = append(r.files, File{ID: id, Filename: filename, Selected: true})
	return true
}

// Remove drops a file by ID. Removing an unknown ID is a no-op.
func (r *FileRegistry) Remove(id string) bool {
	for i, f := range r.files {
		if f.ID == id {
			r.files = append(r.files[:i], r.files[i+1:]...)
			return true
		}
	}
	return false
}

func (r *FileRegistry) SetSelected(id string, selected bool) {
	for i := range r.files {
		if r.files[i].ID == id {
			r.files[i].Selected = selected
			return
		}
	}
}

// SelectedIDs returns the IDs of selected files in registry order.
func (r *FileRegistry) SelectedIDs() []string {
	ids := make([]string, 0, len(r.files))
	for _, f := range r.files {
		if f.Selected {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// ToggleSelectAll selects every file unless all are already selected, in
// which case it deselects every file. A partially selected set selects all.
func (r *FileRegistry) ToggleSelectAll() {
	all := len(r.files) > 0
	for _, f := range r.files {
		if !f.Selected {
			all = false
			break
		}
	}
	for i := range r.files {
		r.files[i].Selected = !all
	}
}

// Files returns a copy of the working set in order.
func (r *FileRegistry) Files() []File {
	out := make([]File, len(r.files))
	copy(out, r.files)
	return out
}

func (r *FileRegistry) Get(id string) (File, bool) {
	for _, f := range r.files {
		if f.ID == id {
			return f, true
		}
	}
	return File{}, false
}

func (r *FileRegistry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

func (r *FileRegistry) Len() int {
	return len(r.files)
}

// NextAfter picks the file that should become active if id goes away: the
// following file in order, else the preceding one, else nothing.
func (r *FileRegistry) NextAfter(id string) string {
	for i, f := range r.files {
		if f.ID != id {
			continue
		}
		if i+1 < len(r.files) {
			return r.files[i+1].ID
		}
		if i > 0 {
			return r.files[i-1].ID
		}
		return ""
	}
	return ""
}
