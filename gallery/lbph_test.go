package gallery

import (
	"math/rand"
	"testing"
)

func noiseFace(seed int64) Face {
	r := rand.New(rand.NewSource(seed))
	f := make(Face, FaceSize*FaceSize)
	r.Read(f)
	return f
}

func TestLBPH_RecognizesStoredFaces(t *testing.T) {
	names := []string{"alice", "bob", "carol", "dave"}
	faces := make([]Face, len(names))
	for i := range faces {
		faces[i] = noiseFace(int64(i + 1))
	}

	g := New(NewLBPH(), 100)
	if err := g.Load(names, faces); err != nil {
		t.Fatal(err)
	}

	for i, f := range faces {
		match, err := g.Identify(f)
		if err != nil {
			t.Fatalf("identify %s: %v", names[i], err)
		}
		if !match.Known {
			t.Errorf("expected %s to be recognized, distance %v", names[i], match.Distance)
		}
		if match.Name != names[i] {
			t.Errorf("expected %s, got %s", names[i], match.Name)
		}
	}
}

func TestLBPH_AddRetrains(t *testing.T) {
	g := New(NewLBPH(), 100)

	first := noiseFace(10)
	second := noiseFace(20)
	if err := g.Add("first", first); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("second", second); err != nil {
		t.Fatal(err)
	}

	match, err := g.Identify(second)
	if err != nil {
		t.Fatal(err)
	}
	if match.Name != "second" {
		t.Errorf("expected second, got %s", match.Name)
	}

	match, err = g.Identify(first)
	if err != nil {
		t.Fatal(err)
	}
	if match.Name != "first" {
		t.Errorf("expected first after retrain, got %s", match.Name)
	}
}

func TestLBPH_PredictRejectsShortFace(t *testing.T) {
	l := NewLBPH()

	if _, _, err := l.Predict(Face{1, 2, 3}); err == nil {
		t.Error("expected error for short face")
	}
}

func TestLBPH_TrainReportsRecognizerError(t *testing.T) {
	l := NewLBPH()
	defer l.Close()

	// two samples with a single label is refused by the recognizer itself
	err := l.Train([]Face{noiseFace(1), noiseFace(2)}, []int{0})
	if err == nil {
		t.Fatal("expected error for mismatched labels")
	}
}

func TestLBPH_TrainRejectsEmptySet(t *testing.T) {
	l := NewLBPH()
	defer l.Close()

	if err := l.Train(nil, nil); err == nil {
		t.Error("expected error for empty training set")
	}
}

func TestGallery_ClosesLBPH(t *testing.T) {
	g := New(NewLBPH(), 100)
	if err := g.Add("alice", noiseFace(1)); err != nil {
		t.Fatal(err)
	}

	if err := g.Close(); err != nil {
		t.Errorf("expected clean close, got %v", err)
	}
}
