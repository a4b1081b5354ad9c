// Package tts 提供文本转语音引擎实现
package tts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"vision-narrator-api/internal/application/speech"
	"vision-narrator-api/internal/config"
)

// 编译期校验接口实现
var _ speech.Engine = (*GoogleTranslateEngine)(nil)

const (
	rpcID      = "jQ1olc"
	rpcPath    = "/_/TranslateWebserverUi/data/batchexecute"
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/47.0.2526.106 Safari/537.36"
	maxLineLen = 16 << 20
)

var (
	audioPattern = regexp.MustCompile(`jQ1olc","\[\\"(.*)\\"]`)

	// ErrNoText 文本切分后没有可朗读的内容
	ErrNoText = errors.New("no text to speak")
	// ErrNoAudio 响应中没有音频数据
	ErrNoAudio = errors.New("no audio stream in response")
)

// GoogleTranslateEngine 通过 Google 翻译的 batchexecute 接口合成 MP3
type GoogleTranslateEngine struct {
	client   *http.Client
	endpoint string
	slow     bool
}

// NewGoogleTranslateEngine 创建引擎
func NewGoogleTranslateEngine(cfg *config.TTSConfig) *GoogleTranslateEngine {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		tld := cfg.TLD
		if tld == "" {
			tld = "com"
		}
		base = "https://translate.google." + tld
	}
	return &GoogleTranslateEngine{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: base + rpcPath,
		slow:     cfg.Slow,
	}
}

// Synthesize 逐段请求音频并按顺序写入 w
func (e *GoogleTranslateEngine) Synthesize(ctx context.Context, text, lang string, w io.Writer) error {
	tokens := Tokenize(text, MaxTokenChars)
	if len(tokens) == 0 {
		return ErrNoText
	}

	for i, tok := range tokens {
		audio, err := e.fetch(ctx, tok, lang)
		if err != nil {
			return fmt.Errorf("synthesize segment %d/%d: %w", i+1, len(tokens), err)
		}
		if _, err := w.Write(audio); err != nil {
			return fmt.Errorf("write audio: %w", err)
		}
	}
	return nil
}

func (e *GoogleTranslateEngine) fetch(ctx context.Context, text, lang string) ([]byte, error) {
	body, err := packageRPC(text, lang, e.slow)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "http://translate.google.com/")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request failed: %d (%s)", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var audio []byte
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.Contains(line, []byte(rpcID)) {
			continue
		}
		m := audioPattern.FindSubmatch(line)
		if m == nil {
			continue
		}
		chunk, err := base64.StdEncoding.DecodeString(string(m[1]))
		if err != nil {
			return nil, fmt.Errorf("decode audio: %w", err)
		}
		audio = append(audio, chunk...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return nil, ErrNoAudio
	}
	return audio, nil
}

// packageRPC 构造 f.req 表单体
func packageRPC(text, lang string, slow bool) (string, error) {
	var speed any
	if slow {
		speed = true
	}
	param, err := compactJSON([]any{text, lang, speed, "null"})
	if err != nil {
		return "", err
	}
	rpc, err := compactJSON([][][]any{{{rpcID, param, nil, "generic"}}})
	if err != nil {
		return "", err
	}
	return "f.req=" + url.QueryEscape(rpc) + "&", nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode rpc: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
