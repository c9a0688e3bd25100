package voice

import (
	"sync"
	"time"
)

// Metrics records how long each stage of a conversation turn took. Every
// latency is measured from the moment the caller stopped speaking, which is
// the delay the person at the counter actually feels. The dashboard serves
// these under /api/metrics, so fields carry JSON tags matching its payload.
type Metrics struct {
	SpeechEndTime    time.Time `json:"speech_end_time"`
	TranscriptTime   time.Time `json:"transcript_time"`
	FirstTokenTime   time.Time `json:"first_token_time"`
	FirstAudioTime   time.Time `json:"first_audio_time"`
	ResponseDoneTime time.Time `json:"response_done_time"`

	VADLatency    time.Duration `json:"vad_latency"`
	ASRLatency    time.Duration `json:"asr_latency"`
	LLMFirstToken time.Duration `json:"llm_first_token"`
	TTSFirstAudio time.Duration `json:"tts_first_audio"`
	TotalLatency  time.Duration `json:"total_latency"`

	AudioChunksIn   int `json:"audio_chunks_in"`
	AudioChunksOut  int `json:"audio_chunks_out"`
	TokensGenerated int `json:"tokens_generated"`
}

// MetricsCollector accumulates turn timings as pipeline callbacks fire.
// Safe for concurrent use; providers call the Mark methods from their read
// loops while the dashboard polls Current from request handlers.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
	history []Metrics

	onUpdate func(Metrics)
}

const metricsHistoryCap = 100

// NewMetricsCollector returns a collector with an empty turn history.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		history: make([]Metrics, 0, metricsHistoryCap),
	}
}

// OnUpdate registers a callback invoked after each timing lands. The
// dashboard uses it to push fresh numbers over the status socket.
func (m *MetricsCollector) OnUpdate(fn func(Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// MarkSpeechEnd starts a new turn. All later marks are measured against
// this instant.
func (m *MetricsCollector) MarkSpeechEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Metrics{}
	m.current.SpeechEndTime = time.Now()
}

// MarkTranscript notes that the provider finished transcribing the turn.
func (m *MetricsCollector) MarkTranscript() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.TranscriptTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.ASRLatency = m.current.TranscriptTime.Sub(m.current.SpeechEndTime)
	}
	m.notify()
}

// MarkFirstToken notes the first model token of the reply. Repeat calls
// within a turn are ignored.
func (m *MetricsCollector) MarkFirstToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.FirstTokenTime.IsZero() {
		m.current.FirstTokenTime = time.Now()
		if !m.current.SpeechEndTime.IsZero() {
			m.current.LLMFirstToken = m.current.FirstTokenTime.Sub(m.current.SpeechEndTime)
		}
		m.notify()
	}
}

// MarkFirstAudio notes the first synthesized audio chunk of the reply.
// This is the number to watch: it is when the caller hears the bot start
// talking. Repeat calls within a turn are ignored.
func (m *MetricsCollector) MarkFirstAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.FirstAudioTime.IsZero() {
		m.current.FirstAudioTime = time.Now()
		if !m.current.SpeechEndTime.IsZero() {
			m.current.TTSFirstAudio = m.current.FirstAudioTime.Sub(m.current.SpeechEndTime)
		}
		m.notify()
	}
}

// MarkResponseDone closes out the turn and files it into the history used
// by Average. Only the most recent turns are retained.
func (m *MetricsCollector) MarkResponseDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ResponseDoneTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.TotalLatency = m.current.ResponseDoneTime.Sub(m.current.SpeechEndTime)
	}
	m.history = append(m.history, m.current)
	if len(m.history) > metricsHistoryCap {
		m.history = m.history[1:]
	}
	m.notify()
}

// IncrementAudioIn counts one chunk of caller audio forwarded upstream.
func (m *MetricsCollector) IncrementAudioIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksIn++
}

// IncrementAudioOut counts one chunk of synthesized audio received.
func (m *MetricsCollector) IncrementAudioOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksOut++
}

// Current returns a snapshot of the in-progress turn.
func (m *MetricsCollector) Current() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Average returns the mean latencies across the retained turn history.
// Timestamps and chunk counts are left zero; only durations are averaged.
func (m *MetricsCollector) Average() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) == 0 {
		return Metrics{}
	}

	var avg Metrics
	for _, h := range m.history {
		avg.VADLatency += h.VADLatency
		avg.ASRLatency += h.ASRLatency
		avg.LLMFirstToken += h.LLMFirstToken
		avg.TTSFirstAudio += h.TTSFirstAudio
		avg.TotalLatency += h.TotalLatency
	}

	n := time.Duration(len(m.history))
	avg.VADLatency /= n
	avg.ASRLatency /= n
	avg.LLMFirstToken /= n
	avg.TTSFirstAudio /= n
	avg.TotalLatency /= n

	return avg
}

// notify hands a copy of the current turn to the update callback.
// Caller must hold mu.
func (m *MetricsCollector) notify() {
	if m.onUpdate != nil {
		metrics := m.current
		go m.onUpdate(metrics)
	}
}

// FormatLatency renders the turn's latencies as a single log-friendly line.
func (m *Metrics) FormatLatency() string {
	return formatDuration(m.VADLatency) + " VAD | " +
		formatDuration(m.ASRLatency) + " ASR | " +
		formatDuration(m.LLMFirstToken) + " LLM | " +
		formatDuration(m.TTSFirstAudio) + " TTS | " +
		formatDuration(m.TotalLatency) + " TOTAL"
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "---ms"
	}
	return d.Round(time.Millisecond).String()
}
