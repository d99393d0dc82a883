package data

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/FranklyNathan/BrambleWars-sub002/logger"

	"github.com/sirupsen/logrus"
)

const embeddedMessages = "assets/texts/messages.json"

var placeholderRegex = regexp.MustCompile(`{(\w+)}`)

// MessageTemplate は messages.json の1件分です。
type MessageTemplate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MessageManager は画面に出す文言のテンプレートを ID で引いて整形します。
type MessageManager struct {
	messages map[string]string
}

// NewMessageManager は、JSON形式のメッセージデータを受け取り、新しいMessageManagerを初期化して返します。
// ファイルパスではなくバイトデータを受け取ることで、このマネージャーはファイルI/Oから独立します。
func NewMessageManager(jsonData []byte) (*MessageManager, error) {
	if jsonData == nil {
		return nil, fmt.Errorf("メッセージデータがnilです")
	}

	var templates []MessageTemplate
	if err := json.Unmarshal(jsonData, &templates); err != nil {
		return nil, fmt.Errorf("メッセージデータのJSONパースに失敗しました: %w", err)
	}

	messages := make(map[string]string, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			continue
		}
		messages[t.ID] = t.Text
	}

	logger.For("messages").WithField("count", len(messages)).Debug("メッセージをロードしました")
	return &MessageManager{messages: messages}, nil
}

// LoadMessages は埋め込みの messages.json から MessageManager を作ります。
func LoadMessages() (*MessageManager, error) {
	raw, err := assets.ReadFile(embeddedMessages)
	if err != nil {
		return nil, fmt.Errorf("埋め込みの messages.json の読み込みに失敗しました: %w", err)
	}
	return NewMessageManager(raw)
}

// GetRawMessage は整形前のテンプレートを返します。
func (mm *MessageManager) GetRawMessage(id string) (string, bool) {
	msg, found := mm.messages[id]
	return msg, found
}

// FormatMessage はテンプレートの {key} を params[key] で置き換えます。
// ID が見つからない場合は ID をそのまま返し、足りないプレースホルダは残します。
func (mm *MessageManager) FormatMessage(id string, params map[string]any) string {
	template, ok := mm.messages[id]
	if !ok {
		logger.For("messages").WithField("id", id).Warn("メッセージIDが見つかりません")
		return id
	}

	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.Trim(match, "{}")
		if val, pOk := params[key]; pOk {
			return fmt.Sprintf("%v", val)
		}
		logger.For("messages").WithFields(logrus.Fields{"id": id, "placeholder": match}).Warn("プレースホルダに対応する値がありません")
		return match
	})
}

// Rejection は入力拒否の理由を表示用の文言にします。未登録の理由はそのまま返します。
func (mm *MessageManager) Rejection(reason string) string {
	if msg, ok := mm.GetRawMessage("reject." + reason); ok {
		return msg
	}
	return reason
}
