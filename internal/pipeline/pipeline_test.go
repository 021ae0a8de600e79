package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atra-labs/atra/internal/dispatch"
	"github.com/atra-labs/atra/internal/mood"
)

type fakeMoods struct {
	mood mood.Mood
	err  error
}

func (f *fakeMoods) Pick(time.Time) (mood.Mood, error) { return f.mood, f.err }

type fakeWriter struct {
	prompt string
	err    error
	calls  int
}

func (f *fakeWriter) GeneratePrompt(context.Context, mood.Mood) (string, error) {
	f.calls++
	return f.prompt, f.err
}

type fakeCaptioner struct {
	igErr error
}

func (f *fakeCaptioner) InstagramCaption(_ context.Context, prompt string, _ mood.Mood) (string, error) {
	if f.igErr != nil {
		return "", f.igErr
	}
	return "ig: " + prompt, nil
}

func (f *fakeCaptioner) FacebookCaption(_ context.Context, prompt string, _ mood.Mood) (string, error) {
	return "fb: " + prompt, nil
}

type fakeImages struct {
	path  string
	err   error
	calls int
}

func (f *fakeImages) Generate(context.Context, string, mood.Mood) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeVideos struct {
	path  string
	err   error
	calls int
}

func (f *fakeVideos) Generate(context.Context, string, mood.Mood) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeUploads struct {
	imageURL string
	videoURL string
	videoErr error
}

func (f *fakeUploads) UploadImage(context.Context, string) (string, error) {
	return f.imageURL, nil
}

func (f *fakeUploads) UploadVideo(context.Context, string) (string, error) {
	if f.videoErr != nil {
		return "", f.videoErr
	}
	return f.videoURL, nil
}

type fakeRunLog struct {
	err    error
	called bool
	prompt string
	url    string
}

func (f *fakeRunLog) Append(_ context.Context, prompt, url string) error {
	f.called = true
	f.prompt = prompt
	f.url = url
	return f.err
}

type fakeDispatch struct {
	err   error
	posts []dispatch.Post
}

func (f *fakeDispatch) Send(_ context.Context, post dispatch.Post) error {
	f.posts = append(f.posts, post)
	return f.err
}

func testPipeline() (*Pipeline, *fakeWriter, *fakeImages, *fakeVideos, *fakeUploads, *fakeRunLog, *fakeDispatch) {
	writer := &fakeWriter{prompt: "journal about the abyss"}
	images := &fakeImages{path: "/tmp/img.jpg"}
	videos := &fakeVideos{path: "/tmp/vid.mp4"}
	uploads := &fakeUploads{
		imageURL: "https://cdn.example.com/img.jpg",
		videoURL: "https://cdn.example.com/vid.mp4",
	}
	runLog := &fakeRunLog{}
	dispatcher := &fakeDispatch{}

	p := &Pipeline{
		Moods:    &fakeMoods{mood: mood.ADHDSpiral},
		Writer:   writer,
		Captions: &fakeCaptioner{},
		Images:   images,
		Videos:   videos,
		Uploads:  uploads,
		RunLog:   runLog,
		Dispatch: dispatcher,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			return time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
		},
	}
	return p, writer, images, videos, uploads, runLog, dispatcher
}

func TestExecute_HappyPathPublishesVideo(t *testing.T) {
	p, _, _, _, _, runLog, dispatcher := testPipeline()

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, mood.ADHDSpiral, run.Mood)
	assert.Equal(t, MediaVideo, run.MediaType)
	assert.Equal(t, "https://cdn.example.com/vid.mp4", run.MediaURL)
	assert.NotEmpty(t, run.ID)

	require.Len(t, dispatcher.posts, 1)
	post := dispatcher.posts[0]
	assert.Equal(t, "video", post.MediaType)
	assert.Equal(t, "https://cdn.example.com/vid.mp4", post.MediaURL)
	assert.Equal(t, "ig: journal about the abyss", post.InstagramCaption)
	assert.Equal(t, "fb: journal about the abyss", post.FacebookCaption)
	assert.Equal(t, "2026-08-31T09:00:00Z", post.Timestamp)

	// The sheet row records the published media, so after a successful
	// augmentation it carries the video URL.
	assert.True(t, runLog.called)
	assert.Equal(t, "https://cdn.example.com/vid.mp4", runLog.url)
}

func TestExecute_VideoFailureDegradesToImage(t *testing.T) {
	p, _, _, videos, _, _, dispatcher := testPipeline()
	videos.err = errors.New("sora is down")

	run, err := p.Execute(context.Background())
	require.NoError(t, err, "a failed video must never block a post")

	assert.Equal(t, MediaImage, run.MediaType)
	assert.Equal(t, "https://cdn.example.com/img.jpg", run.MediaURL)

	require.Len(t, dispatcher.posts, 1)
	assert.Equal(t, "image", dispatcher.posts[0].MediaType)
	assert.Equal(t, "https://cdn.example.com/img.jpg", dispatcher.posts[0].MediaURL)
}

func TestExecute_VideoUploadFailureAlsoDegrades(t *testing.T) {
	p, _, _, _, uploads, _, dispatcher := testPipeline()
	uploads.videoErr = errors.New("cloudinary timeout")

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MediaImage, run.MediaType)
	require.Len(t, dispatcher.posts, 1)
	assert.Equal(t, "https://cdn.example.com/img.jpg", dispatcher.posts[0].MediaURL)
}

func TestExecute_SkipVideoFlag(t *testing.T) {
	p, _, _, videos, _, _, _ := testPipeline()
	p.SkipVideo = true

	run, err := p.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, videos.calls)
	assert.Equal(t, MediaImage, run.MediaType)
}

func TestExecute_PromptFailureIsFatal(t *testing.T) {
	p, writer, images, _, _, _, dispatcher := testPipeline()
	writer.err = errors.New("model overloaded")

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "generate prompt")

	assert.Zero(t, images.calls, "image generation must not run without a prompt")
	assert.Empty(t, dispatcher.posts)
}

func TestExecute_EmptyPromptIsFatal(t *testing.T) {
	p, writer, images, _, _, _, _ := testPipeline()
	writer.prompt = "   "

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "empty prompt")
	assert.Zero(t, images.calls)
}

func TestExecute_SheetFailureDoesNotAbort(t *testing.T) {
	p, _, _, _, _, runLog, dispatcher := testPipeline()
	runLog.err = errors.New("quota exceeded")

	_, err := p.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, dispatcher.posts, 1)
}

func TestExecute_DispatchFailureFailsRun(t *testing.T) {
	p, _, _, _, _, _, dispatcher := testPipeline()
	dispatcher.err = errors.New("webhook 500 after retries")

	run, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "dispatch post")

	// The run record still carries what was produced.
	assert.Equal(t, MediaVideo, run.MediaType)
}

func TestExecute_MoodFailureIsFatal(t *testing.T) {
	p, _, _, _, _, _, _ := testPipeline()
	p.Moods = &fakeMoods{err: errors.New("history not writable")}

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "select mood")
}

func TestExecute_CaptionFailureIsFatal(t *testing.T) {
	p, _, _, _, _, _, dispatcher := testPipeline()
	p.Captions = &fakeCaptioner{igErr: errors.New("rate limited")}

	_, err := p.Execute(context.Background())
	require.Error(t, err)
	assert.Empty(t, dispatcher.posts)
}

func TestExecute_ValidatesRequiredCollaborators(t *testing.T) {
	p, _, _, _, _, _, _ := testPipeline()
	p.Dispatch = nil

	_, err := p.Execute(context.Background())
	assert.ErrorContains(t, err, "dispatcher")
}

func TestExecute_NilVideoGeneratorSkipsAugmentation(t *testing.T) {
	p, _, _, _, _, _, dispatcher := testPipeline()
	p.Videos = nil

	run, err := p.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MediaImage, run.MediaType)
	assert.Len(t, dispatcher.posts, 1)
}
