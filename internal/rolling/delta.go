package rolling

// UserDelta accumulates one guild-ingest run's per-user XP/length
// changes, flushed once into UserLevels at the end of the run (§4.D,
// §4.G step 4).
type UserDelta struct {
	XPSum        int
	MessageCount int
	LengthSum    int

	// EMACurrent tracks the running EMA of message length across this
	// run's XP>0 messages only. Zero means "not yet touched this run";
	// the flush step falls back to the persisted EMA in that case.
	EMACurrent float64
}

// Deltas accumulates UserDelta per user for one guild-ingest run.
type Deltas struct {
	cfg    Config
	byUser map[int64]*UserDelta
}

// NewDeltas creates an empty accumulator.
func NewDeltas(cfg Config) *Deltas {
	return &Deltas{cfg: cfg, byUser: make(map[int64]*UserDelta)}
}

// Record folds one non-bot message's outcome into its author's delta.
// persistedEMA is that user's UserAverageMessageLengthEma before this
// run, used to seed EMACurrent the first time a message scores XP>0.
func (d *Deltas) Record(userID int64, xp, rawLength int, persistedEMA float64) {
	delta, ok := d.byUser[userID]
	if !ok {
		delta = &UserDelta{}
		d.byUser[userID] = delta
	}

	delta.MessageCount++
	delta.LengthSum += rawLength

	if xp <= 0 {
		return
	}
	delta.XPSum += xp

	if delta.EMACurrent <= 0 {
		if persistedEMA > 0 {
			delta.EMACurrent = persistedEMA
		} else {
			delta.EMACurrent = float64(rawLength)
		}
	} else {
		alpha := d.cfg.Alpha()
		delta.EMACurrent = (1-alpha)*delta.EMACurrent + alpha*float64(rawLength)
	}
}

// All returns every user touched this run.
func (d *Deltas) All() map[int64]*UserDelta {
	return d.byUser
}
