// Package entity 定义领域实体
package entity

import "time"

// AudioExtension 合成音频文件扩展名
const AudioExtension = ".mp3"

// AudioArtifact 一次语音合成产生的 MP3 文件，创建后不再修改
type AudioArtifact struct {
	ID        string
	Path      string
	URL       string
	Size      int64
	CreatedAt time.Time
}

// AudioFileName 由产物 ID 生成文件名
func AudioFileName(id string) string {
	return id + AudioExtension
}
