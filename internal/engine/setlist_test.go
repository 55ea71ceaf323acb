package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
)

func seq(v float64) *float64 {
	return &v
}

func song(s float64, name string) model.Song {
	return model.Song{Seq: seq(s), Name: name}
}

func tourWith(songs ...model.Song) model.Tour {
	return model.Tour{ID: "tour", StandardMainSet: songs}
}

func concertWith(mods *model.MainSetModifications, encores ...model.Encore) model.Concert {
	return model.Concert{ConcertRaw: model.ConcertRaw{
		ID:                   "concert",
		TourRef:              "tour",
		MainSetModifications: mods,
		Encores:              encores,
	}}
}

func seqs(items []model.SetlistItem) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.Seq
	}
	return out
}

func names(items []model.SetlistItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestReconstruct_SeedsTemplate(t *testing.T) {
	tour := tourWith(
		song(1, "派對動物"),
		model.Song{Name: "倔強"},
		song(7, "溫柔"),
		model.Song{Seq: seq(0), Name: "知足"},
	)

	items := Reconstruct(tour, concertWith(nil))

	assert.Equal(t, []float64{1, 2, 7, 4}, seqs(items))
	assert.Equal(t, []string{"派對動物", "倔強", "溫柔", "知足"}, names(items))
	for _, item := range items {
		assert.False(t, item.IsAdded)
		assert.False(t, item.IsEncore)
	}
}

func TestReconstruct_Removal(t *testing.T) {
	tour := tourWith(song(1, "A"), song(2, "B"), song(3, "C"))
	concert := concertWith(&model.MainSetModifications{RemovedSeq: []float64{2}})

	items := Reconstruct(tour, concert)

	assert.Equal(t, []float64{1, 3}, seqs(items))
	assert.Equal(t, []string{"A", "C"}, names(items))
}

func TestReconstruct_RemovalOfUnknownSeqIsIgnored(t *testing.T) {
	tour := tourWith(song(1, "A"), song(2, "B"))
	concert := concertWith(&model.MainSetModifications{RemovedSeq: []float64{9}})

	items, warnings := ReconstructWithReport(tour, concert)

	assert.Equal(t, []float64{1, 2}, seqs(items))
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarningDanglingRemoval, warnings[0].Kind)
	assert.Equal(t, 9.0, *warnings[0].Seq)
}

func TestReconstruct_Insertion(t *testing.T) {
	tour := tourWith(song(1, "first"), song(2, "second"))
	concert := concertWith(&model.MainSetModifications{
		Added: []model.Insertion{{AfterSeq: 1, Songs: []model.Song{{Name: "A"}, {Name: "B", IsCover: true}}}},
	})

	items := Reconstruct(tour, concert)

	require.Len(t, items, 4)
	assert.Equal(t, []string{"first", "A", "B", "second"}, names(items))
	assert.InDelta(t, 1.10, items[1].Seq, 1e-9)
	assert.InDelta(t, 1.11, items[2].Seq, 1e-9)
	assert.True(t, items[1].IsAdded)
	assert.True(t, items[2].IsAdded)
	assert.True(t, items[2].IsCover)
	assert.False(t, items[0].IsAdded)
	assert.False(t, items[3].IsAdded)
}

func TestReconstruct_InsertionGroupsShareOrChainAnchors(t *testing.T) {
	tests := []struct {
		name     string
		added    []model.Insertion
		expected []string
		seqs     []float64
	}{
		{
			name: "later group anchors on an added song",
			added: []model.Insertion{
				{AfterSeq: 1, Songs: []model.Song{{Name: "A"}}},
				{AfterSeq: 1.1, Songs: []model.Song{{Name: "B"}}},
			},
			expected: []string{"first", "A", "B", "second"},
			seqs:     []float64{1, 1.1, 1.2, 2},
		},
		{
			name: "later group on the same anchor lands first",
			added: []model.Insertion{
				{AfterSeq: 1, Songs: []model.Song{{Name: "A"}}},
				{AfterSeq: 1, Songs: []model.Song{{Name: "B"}}},
			},
			expected: []string{"first", "B", "A", "second"},
			seqs:     []float64{1, 1.1, 1.1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := tourWith(song(1, "first"), song(2, "second"))
			items, warnings := ReconstructWithReport(tour, concertWith(&model.MainSetModifications{Added: tt.added}))

			assert.Empty(t, warnings)
			assert.Equal(t, tt.expected, names(items))
			require.Len(t, items, len(tt.seqs))
			for i, want := range tt.seqs {
				assert.InDelta(t, want, items[i].Seq, 1e-9, "seq of %s", items[i].Name)
			}
		})
	}
}

func TestReconstruct_LargeInsertionGroupStaysBeforeNextSong(t *testing.T) {
	tour := tourWith(song(1, "first"), song(2, "second"))
	concert := concertWith(&model.MainSetModifications{
		Added: []model.Insertion{{AfterSeq: 1, Songs: make([]model.Song, 11)}},
	})

	items, warnings := ReconstructWithReport(tour, concert)

	require.Len(t, items, 13)
	assert.InDelta(t, 1.2, items[11].Seq, 1e-9)
	assert.Equal(t, "second", items[12].Name)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarningInsertOverflow, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, "exceed the 10 two-digit seq slots")
}

func TestReconstruct_InsertionAfterLastSong(t *testing.T) {
	tour := tourWith(song(1, "first"), song(2, "last"))
	concert := concertWith(&model.MainSetModifications{
		Added: []model.Insertion{{AfterSeq: 2, Songs: []model.Song{{Name: "extra"}}}},
	})

	items := Reconstruct(tour, concert)

	assert.Equal(t, []string{"first", "last", "extra"}, names(items))
}

func TestReconstruct_DanglingInsertionHasNoEffect(t *testing.T) {
	tour := tourWith(song(1, "A"), song(2, "B"), song(3, "C"))
	base := &model.MainSetModifications{RemovedSeq: []float64{2}}
	withDangling := &model.MainSetModifications{
		RemovedSeq: []float64{2},
		Added: []model.Insertion{
			{AfterSeq: 2, Songs: []model.Song{{Name: "after removed"}}},
			{AfterSeq: 42, Songs: []model.Song{{Name: "after missing"}}},
		},
	}

	expected := Reconstruct(tour, concertWith(base))
	items, warnings := ReconstructWithReport(tour, concertWith(withDangling))

	assert.Equal(t, expected, items)
	require.Len(t, warnings, 2)
	assert.Equal(t, model.WarningDanglingInsertion, warnings[0].Kind)
	assert.Equal(t, model.WarningDanglingInsertion, warnings[1].Kind)
	assert.Equal(t, "concert", warnings[0].ConcertID)
	assert.Equal(t, "tour", warnings[0].TourID)
}

func TestReconstruct_InsertionGroupsInOrder(t *testing.T) {
	tour := tourWith(song(1, "A"), song(2, "B"), song(3, "C"))
	concert := concertWith(&model.MainSetModifications{
		Added: []model.Insertion{
			{AfterSeq: 3, Songs: []model.Song{{Name: "after C"}}},
			{AfterSeq: 1, Songs: []model.Song{{Name: "after A"}}},
		},
	})

	items := Reconstruct(tour, concert)

	assert.Equal(t, []string{"A", "after A", "B", "C", "after C"}, names(items))
	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].Seq, items[i].Seq)
	}
}

func TestReconstruct_Encores(t *testing.T) {
	tour := tourWith(song(1, "A"))
	concert := concertWith(nil,
		model.Encore{Level: 1, Songs: []model.Song{{Name: "E1-1"}}},
		model.Encore{Level: 2, Songs: []model.Song{{Name: "E2-1"}, {Name: "E2-2", IsRequest: true, Note: "fan request"}}},
	)

	items := Reconstruct(tour, concert)

	require.Len(t, items, 4)
	assert.Equal(t, []float64{1, 1011, 1020, 1021}, seqs(items))

	second := items[3]
	assert.Equal(t, 1021.0, second.Seq)
	assert.True(t, second.IsEncore)
	assert.Equal(t, 2, second.EncoreLevel)
	assert.True(t, second.IsRequest)
	assert.Equal(t, "fan request", second.Note)
	assert.False(t, items[0].IsEncore)
}

func TestReconstruct_EncoreSourceOrderIsKept(t *testing.T) {
	tour := tourWith(song(1, "A"))
	concert := concertWith(nil,
		model.Encore{Level: 3, Songs: []model.Song{{Name: "third"}}},
		model.Encore{Level: 1, Songs: []model.Song{{Name: "first"}}},
	)

	items := Reconstruct(tour, concert)

	assert.Equal(t, []string{"A", "third", "first"}, names(items))
	assert.Equal(t, 3, items[1].EncoreLevel)
	assert.Equal(t, 1, items[2].EncoreLevel)
}

func TestReconstruct_EmptyTemplateStillHasEncores(t *testing.T) {
	concert := concertWith(
		&model.MainSetModifications{RemovedSeq: []float64{1}},
		model.Encore{Level: 1, Songs: []model.Song{{Name: "only"}}},
	)

	items := Reconstruct(model.Tour{ID: "empty"}, concert)

	require.Len(t, items, 1)
	assert.Equal(t, 1010.0, items[0].Seq)
}

func TestReconstruct_NoModifications(t *testing.T) {
	items := Reconstruct(model.Tour{}, concertWith(nil))
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestReconstruct_CarriesSongFlags(t *testing.T) {
	tour := tourWith(model.Song{Seq: seq(1), Name: "組曲", IsMedley: true, Note: "medley"})

	items := Reconstruct(tour, concertWith(nil))

	require.Len(t, items, 1)
	assert.True(t, items[0].IsMedley)
	assert.Equal(t, "medley", items[0].Note)
}

func TestReconstruct_Idempotent(t *testing.T) {
	tour := tourWith(song(1, "A"), song(2, "B"), song(3, "C"))
	concert := concertWith(
		&model.MainSetModifications{
			RemovedSeq: []float64{3},
			Added:      []model.Insertion{{AfterSeq: 2, Songs: []model.Song{{Name: "X"}}}},
		},
		model.Encore{Level: 1, Songs: []model.Song{{Name: "E"}}},
	)

	first, firstWarnings := ReconstructWithReport(tour, concert)
	second, secondWarnings := ReconstructWithReport(tour, concert)

	assert.Equal(t, first, second)
	assert.Equal(t, firstWarnings, secondWarnings)
	assert.Equal(t, []string{"A", "B", "C"}, names(Reconstruct(tour, concertWith(nil))))
}

func TestReconstructWithReport_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		tour     model.Tour
		concert  model.Concert
		expected []model.WarningKind
	}{
		{
			name:     "clean",
			tour:     tourWith(song(1, "A"), song(2, "B")),
			concert:  concertWith(nil),
			expected: nil,
		},
		{
			name:     "duplicate template seq",
			tour:     tourWith(song(1, "A"), song(1, "B")),
			concert:  concertWith(nil),
			expected: []model.WarningKind{model.WarningDuplicateSeq},
		},
		{
			name:     "encore overflow",
			tour:     tourWith(song(1, "A")),
			concert:  concertWith(nil, model.Encore{Level: 1, Songs: make([]model.Song, 11)}),
			expected: []model.WarningKind{model.WarningEncoreOverflow},
		},
		{
			name: "insertion overflow",
			tour: tourWith(song(1, "A")),
			concert: concertWith(&model.MainSetModifications{
				Added: []model.Insertion{{AfterSeq: 1, Songs: make([]model.Song, 11)}},
			}),
			expected: []model.WarningKind{model.WarningInsertOverflow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, warnings := ReconstructWithReport(tt.tour, tt.concert)
			var kinds []model.WarningKind
			for _, w := range warnings {
				kinds = append(kinds, w.Kind)
			}
			assert.Equal(t, tt.expected, kinds)
		})
	}
}
