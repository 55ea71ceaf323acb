package engine

import (
	"fmt"

	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

const (
	// encoreSeqBase puts every encore after any realistic main set
	encoreSeqBase = 1000
	// encoreLevelBand is the number of seq slots reserved per encore level
	encoreLevelBand = 10

	insertSeqOffset = 0.1
	insertSeqStep   = 0.01
	// maxInsertPerGroup keeps added seqs within after+0.10 .. after+0.19,
	// so each reads as the anchor seq plus a two-digit suffix
	maxInsertPerGroup = 10
)

// Reconstruct computes the performed setlist of a concert from its tour's
// standard main set and the concert's modifications and encores.
// The caller must resolve the tour; concerts without one have an empty setlist.
func Reconstruct(tour model.Tour, concert model.Concert) []model.SetlistItem {
	items, _ := ReconstructWithReport(tour, concert)
	return items
}

// ReconstructWithReport is Reconstruct plus the non-fatal warnings found on the way:
// duplicate template seqs, removals and insertions without a matching song, and
// groups too large for their seq band. Warnings never change the resulting items.
func ReconstructWithReport(tour model.Tour, concert model.Concert) ([]model.SetlistItem, []model.IntegrityWarning) {
	b := &setlistBuilder{tourID: tour.ID, concertID: concert.ID}

	b.seed(tour.StandardMainSet)
	if mods := concert.MainSetModifications; mods != nil {
		b.remove(mods.RemovedSeq)
		for _, group := range mods.Added {
			b.insert(group)
		}
	}
	encores := b.encores(concert.Encores)

	items := make([]model.SetlistItem, 0, len(b.main)+len(encores))
	items = append(items, b.main...)
	items = append(items, encores...)
	return items, b.warnings
}

type setlistBuilder struct {
	tourID    string
	concertID string
	main      []model.SetlistItem
	warnings  []model.IntegrityWarning
}

func (b *setlistBuilder) seed(template []model.Song) {
	b.main = make([]model.SetlistItem, 0, len(template))
	seen := make(map[float64]bool, len(template))

	for i, song := range template {
		seq := float64(i + 1)
		if song.Seq != nil && *song.Seq != 0 {
			seq = *song.Seq
		}
		if seen[seq] {
			b.warn(model.WarningDuplicateSeq, seq,
				fmt.Sprintf("tour %s has more than one song with seq %g", b.tourID, seq))
		}
		seen[seq] = true

		b.main = append(b.main, newItem(song, seq))
	}
}

func (b *setlistBuilder) remove(removed []float64) {
	if len(removed) == 0 {
		return
	}

	drop := make(map[float64]bool, len(removed))
	for _, seq := range removed {
		drop[seq] = true
	}

	matched := make(map[float64]bool, len(removed))
	kept := b.main[:0:0]
	for _, item := range b.main {
		if drop[item.Seq] {
			matched[item.Seq] = true
			continue
		}
		kept = append(kept, item)
	}
	b.main = kept

	for _, seq := range removed {
		if !matched[seq] {
			b.warn(model.WarningDanglingRemoval, seq,
				fmt.Sprintf("removed seq %g matches no song of tour %s", seq, b.tourID))
		}
	}
}

func (b *setlistBuilder) insert(group model.Insertion) {
	anchor := -1
	for i, item := range b.main {
		if item.Seq == group.AfterSeq {
			anchor = i
			break
		}
	}
	if anchor == -1 {
		b.warn(model.WarningDanglingInsertion, group.AfterSeq,
			fmt.Sprintf("insertion after seq %g dropped: no such song in the main set", group.AfterSeq))
		return
	}
	if len(group.Songs) > maxInsertPerGroup {
		b.warn(model.WarningInsertOverflow, group.AfterSeq,
			fmt.Sprintf("%d songs inserted after seq %g exceed the %d two-digit seq slots after it",
				len(group.Songs), group.AfterSeq, maxInsertPerGroup))
	}

	added := make([]model.SetlistItem, 0, len(group.Songs))
	for i, song := range group.Songs {
		item := newItem(song, group.AfterSeq+insertSeqOffset+insertSeqStep*float64(i))
		item.IsAdded = true
		added = append(added, item)
	}

	main := make([]model.SetlistItem, 0, len(b.main)+len(added))
	main = append(main, b.main[:anchor+1]...)
	main = append(main, added...)
	main = append(main, b.main[anchor+1:]...)
	b.main = main
}

func (b *setlistBuilder) encores(groups []model.Encore) []model.SetlistItem {
	var items []model.SetlistItem
	for _, group := range groups {
		if len(group.Songs) > encoreLevelBand {
			b.warn(model.WarningEncoreOverflow, float64(group.Level),
				fmt.Sprintf("encore level %d has %d songs, more than its seq band holds", group.Level, len(group.Songs)))
		}
		for i, song := range group.Songs {
			item := newItem(song, float64(encoreSeqBase+group.Level*encoreLevelBand+i))
			item.IsEncore = true
			item.EncoreLevel = group.Level
			items = append(items, item)
		}
	}
	return items
}

func (b *setlistBuilder) warn(kind model.WarningKind, seq float64, msg string) {
	b.warnings = append(b.warnings, model.IntegrityWarning{
		Kind:      kind,
		ConcertID: b.concertID,
		TourID:    b.tourID,
		Seq:       &seq,
		Message:   msg,
	})
}

func newItem(song model.Song, seq float64) model.SetlistItem {
	return model.SetlistItem{
		Seq:       seq,
		Name:      song.Name,
		IsMedley:  song.IsMedley,
		IsCover:   song.IsCover,
		IsRequest: song.IsRequest,
		Note:      song.Note,
	}
}
