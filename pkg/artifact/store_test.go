package artifact

import (
	"os"
	"strings"
	"sync"
	"testing"

	"krishigo/pkg/model"
)

func writeArtifact(t *testing.T, s *Store) string {
	t.Helper()
	path := s.NewPath("mp3")
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublishSupersedes(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	first := writeArtifact(t, s)
	s.Publish("", first, "mp3", model.LangHindi)

	art, ok := s.Current("")
	if !ok {
		t.Fatal("expected current artifact")
	}
	if art.Path != first || art.Language != model.LangHindi {
		t.Errorf("unexpected artifact %+v", art)
	}

	second := writeArtifact(t, s)
	s.Publish("", second, "mp3", model.LangEnglish)

	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("superseded artifact should be deleted")
	}
	art, ok = s.Current("")
	if !ok || art.Path != second {
		t.Errorf("Current = %+v, want %s", art, second)
	}
}

func TestCurrentMissingFile(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, ok := s.Current("nobody"); ok {
		t.Error("expected no artifact for fresh session")
	}

	path := writeArtifact(t, s)
	s.Publish("default", path, "mp3", model.LangEnglish)
	os.Remove(path)

	if _, ok := s.Current("default"); ok {
		t.Error("deleted file should not be served")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	a := writeArtifact(t, s)
	b := writeArtifact(t, s)
	s.Publish("farmer-a", a, "mp3", model.LangHindi)
	s.Publish("farmer-b", b, "mp3", model.LangTamil)

	artA, okA := s.Current("farmer-a")
	artB, okB := s.Current("farmer-b")
	if !okA || !okB || artA.Path != a || artB.Path != b {
		t.Errorf("sessions interfered: a=%+v b=%+v", artA, artB)
	}
}

func TestConcurrentPublish(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := s.NewPath("mp3")
			if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
				t.Error(err)
				return
			}
			s.Publish("default", path, "mp3", model.LangEnglish)
		}()
	}
	wg.Wait()

	// exactly one winner survives and it is readable
	art, ok := s.Current("default")
	if !ok {
		t.Fatal("expected a current artifact after concurrent publishes")
	}
	if _, err := os.Stat(art.Path); err != nil {
		t.Errorf("winner not on disk: %v", err)
	}
}

func TestTempStoreCleanup(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s.dir, "krishigo-audio-") {
		t.Errorf("unexpected temp dir %q", s.dir)
	}

	path := writeArtifact(t, s)
	s.Publish("default", path, "mp3", model.LangEnglish)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(s.dir); !os.IsNotExist(err) {
		t.Error("temp dir should be removed on Close")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("artifact should be removed on Close")
	}
}
