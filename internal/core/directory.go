package core

// ResidentDirectory tracks current residents in admission order and keeps the alumni
// list of residents that left the sanctuary.
type ResidentDirectory struct {
	order     []ResidentID
	residents map[ResidentID]Resident
	alumni    []AlumniRecord
}

// NewResidentDirectory returns an empty directory.
func NewResidentDirectory() *ResidentDirectory {
	return &ResidentDirectory{residents: make(map[ResidentID]Resident)}
}

// Add registers a newly admitted resident.
func (d *ResidentDirectory) Add(r Resident) bool {
	if _, exists := d.residents[r.ID]; exists {
		return false
	}
	d.residents[r.ID] = r
	d.order = append(d.order, r.ID)
	return true
}

// Get returns a tracked resident.
func (d *ResidentDirectory) Get(id ResidentID) (Resident, bool) {
	r, ok := d.residents[id]
	return r, ok
}

// Put overwrites a tracked resident after an attribute update.
func (d *ResidentDirectory) Put(r Resident) bool {
	if _, ok := d.residents[r.ID]; !ok {
		return false
	}
	d.residents[r.ID] = r
	return true
}

// Retire moves a resident to the alumni list. The alumni copy is never updated again.
func (d *ResidentDirectory) Retire(record AlumniRecord) bool {
	id := record.Resident.ID
	if _, ok := d.residents[id]; !ok {
		return false
	}
	delete(d.residents, id)
	for i, candidate := range d.order {
		if candidate == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.alumni = append(d.alumni, record)
	return true
}

// List returns current residents in admission order.
func (d *ResidentDirectory) List() []Resident {
	out := make([]Resident, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.residents[id])
	}
	return out
}

// Alumni returns removed residents in removal order.
func (d *ResidentDirectory) Alumni() []AlumniRecord {
	out := make([]AlumniRecord, len(d.alumni))
	copy(out, d.alumni)
	return out
}

// Len returns the number of current residents.
func (d *ResidentDirectory) Len() int {
	return len(d.order)
}

func (d *ResidentDirectory) clone() *ResidentDirectory {
	cp := &ResidentDirectory{
		order:     append([]ResidentID(nil), d.order...),
		residents: make(map[ResidentID]Resident, len(d.residents)),
		alumni:    append([]AlumniRecord(nil), d.alumni...),
	}
	for k, v := range d.residents {
		cp.residents[k] = v
	}
	return cp
}
