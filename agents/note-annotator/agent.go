package noteannotator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"study-agent/agents/note-annotator/note"
	"study-agent/agents/note-annotator/transcript"
	"study-agent/agents/note-annotator/youtube"
	"study-agent/internal/models"
	"study-agent/shared/ai"
	"study-agent/shared/config"
	"study-agent/shared/email"
	"study-agent/shared/monitoring"
	"study-agent/shared/storage"
)

// NoteAgent implements the scheduler.Agent interface. One run scans the
// vault for clipped video notes, downloads each video's transcript,
// generates study sections, and rewrites the notes. Notes are processed one
// at a time; the tracker plus the scheduler's overlap guard keep a video
// from ever being fetched twice concurrently.
type NoteAgent struct {
	config      *config.Config
	downloader  *transcript.Downloader
	annotator   *ai.Annotator
	metadataAPI *youtube.MetadataClient
	emailSender *email.Sender
	tracker     *storage.NoteTracker
}

// NoteMetrics summarizes one agent run.
type NoteMetrics struct {
	Scanned   int
	Eligible  int
	Annotated int
	Skipped   int
	Failed    int
}

func (m NoteMetrics) GetSummary() string {
	return fmt.Sprintf("scanned %d notes, annotated %d, skipped %d, failed %d",
		m.Scanned, m.Annotated, m.Skipped, m.Failed)
}

var _ monitoring.RunSummary = NoteMetrics{}

func NewNoteAgent(cfg *config.Config) *NoteAgent {
	return &NoteAgent{
		config: cfg,
	}
}

func (a *NoteAgent) Name() string {
	return "Note Annotator"
}

func (a *NoteAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.downloader == nil {
		a.downloader = transcript.NewDownloader(&a.config.Transcript)
		log.Println("Transcript downloader initialized")
	}

	if a.annotator == nil {
		annotator, err := ai.NewAnnotator(a.config)
		if err != nil {
			return fmt.Errorf("failed to create AI annotator: %w", err)
		}
		a.annotator = annotator
		log.Println("AI annotator initialized")
	}

	if a.metadataAPI == nil && a.config.YouTube.APIKey != "" {
		client, err := youtube.NewMetadataClient(context.Background(), a.config.YouTube.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create YouTube metadata client: %w", err)
		}
		a.metadataAPI = client
		log.Println("YouTube metadata client initialized")
	}

	if a.emailSender == nil && a.config.Email.Enabled() {
		a.emailSender = email.NewSender(&a.config.Email)
		log.Println("Email sender initialized")
	}

	if a.tracker == nil {
		// Remember annotated notes for 30 days; a rewritten note also
		// carries its generated block, so expiry only matters for notes
		// the user reset by hand.
		tracker, err := storage.NewNoteTracker(a.config.Notes.DataDir, 30*24*time.Hour)
		if err != nil {
			return fmt.Errorf("failed to create note tracker: %w", err)
		}
		a.tracker = tracker
		log.Printf("Note tracker initialized (%d notes tracked)", tracker.Count())
	}

	return nil
}

func (a *NoteAgent) RunOnce(ctx context.Context) (monitoring.RunSummary, error) {
	metrics := NoteMetrics{}

	log.Printf("Scanning vault %s for video notes...", a.config.Notes.VaultDir)
	paths, err := note.ScanVault(a.config.Notes.VaultDir)
	if err != nil {
		return metrics, fmt.Errorf("failed to scan vault: %w", err)
	}
	metrics.Scanned = len(paths)

	candidates := a.collectCandidates(paths, &metrics)
	metrics.Eligible = len(candidates)

	if len(candidates) == 0 {
		log.Println("No new video notes to annotate")
		return metrics, nil
	}
	log.Printf("Found %d notes to annotate (%d scanned, %d skipped)",
		len(candidates), metrics.Scanned, metrics.Skipped)

	var annotated []*models.AnnotatedNote
	for i, candidate := range candidates {
		log.Printf("Annotating note %d/%d: %s (video %s)",
			i+1, len(candidates), candidate.note.Path, candidate.videoID)

		record, err := a.annotateNote(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return metrics, ctx.Err()
			}
			log.Printf("Warning: Failed to annotate %s: %s", candidate.note.Path, userMessage(err))
			metrics.Failed++
			if metrics.Failed > len(candidates)/2 && metrics.Failed > 1 {
				return metrics, fmt.Errorf("too many annotation failures (%d/%d), stopping", metrics.Failed, i+1)
			}
			continue
		}

		annotated = append(annotated, record)
		metrics.Annotated++

		// Be gentle with both upstreams between notes.
		if i < len(candidates)-1 {
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return metrics, ctx.Err()
			}
		}
	}

	if a.emailSender != nil && len(annotated) > 0 {
		report := &models.AnnotationReport{
			Date:      time.Now(),
			Notes:     annotated,
			Scanned:   metrics.Scanned,
			Annotated: metrics.Annotated,
			Failed:    metrics.Failed,
		}
		log.Printf("Sending digest email with %d notes", len(annotated))
		if err := a.emailSender.SendReport(report); err != nil {
			log.Printf("Warning: Failed to send digest email: %v", err)
		}
	}

	log.Printf("Run complete: %s", metrics.GetSummary())
	return metrics, nil
}

type candidate struct {
	note    *note.Note
	videoID string
}

// collectCandidates reads every scanned note and keeps the ones with a
// resolvable video reference that have not been annotated yet.
func (a *NoteAgent) collectCandidates(paths []string, metrics *NoteMetrics) []candidate {
	var candidates []candidate

	for _, path := range paths {
		n, err := note.Read(path)
		if err != nil {
			log.Printf("Warning: Skipping unreadable note %s: %v", path, err)
			metrics.Skipped++
			continue
		}

		source := n.VideoSource()
		if source == "" {
			metrics.Skipped++
			continue
		}

		videoID, err := transcript.ExtractVideoID(source)
		if err != nil {
			log.Printf("Warning: Note %s has no recognizable video ID in %q", path, source)
			metrics.Skipped++
			continue
		}

		if note.HasGeneratedBlock(n.Body) || a.tracker.IsAnnotated(videoID) {
			metrics.Skipped++
			continue
		}

		candidates = append(candidates, candidate{note: n, videoID: videoID})
	}

	return candidates
}

// annotateNote runs the full pipeline for one note: transcript, optional
// metadata enrichment, section generation, rewrite, tracking.
func (a *NoteAgent) annotateNote(ctx context.Context, c candidate) (*models.AnnotatedNote, error) {
	result, err := a.downloader.Fetch(ctx, c.videoID)
	if err != nil {
		return nil, err
	}

	if a.metadataAPI != nil {
		if meta, err := a.metadataAPI.VideoMetadata(ctx, c.videoID); err == nil {
			result.Metadata = *meta
		} else {
			log.Printf("Warning: Metadata API lookup failed for %s, using scraped metadata: %v", c.videoID, err)
		}
	}

	sections, err := a.annotator.GenerateSections(ctx, result)
	if err != nil {
		return nil, err
	}

	c.note.Body = note.ApplySections(c.note.Body, sections, result.Metadata)
	if err := note.Write(c.note); err != nil {
		return nil, err
	}

	if err := a.tracker.MarkAnnotated(c.videoID); err != nil {
		log.Printf("Warning: Failed to track annotated note: %v", err)
	}

	return &models.AnnotatedNote{
		Path:     c.note.Path,
		VideoID:  c.videoID,
		Title:    result.Metadata.Title,
		Language: result.Language,
		Segments: len(result.Segments),
		Chars:    len(result.Text),
	}, nil
}

// userMessage maps a pipeline failure to the message shown in logs and, via
// the digest, to the user. The agent performs no retries of its own; the
// downloader already spent the retry budget.
func userMessage(err error) string {
	switch {
	case errors.Is(err, transcript.ErrRateLimited):
		return "YouTube is rate limiting requests - try again later"
	case errors.Is(err, transcript.ErrVideoUnavailable):
		return "the video is unavailable or has been deleted"
	case errors.Is(err, transcript.ErrIdentifierNotFound):
		return "no video identifier could be extracted"
	}

	var notFound *transcript.NoTranscriptError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var download *transcript.DownloadError
	if errors.As(err, &download) {
		return download.Error()
	}
	return err.Error()
}
