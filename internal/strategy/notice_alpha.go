package strategy

import (
	"fmt"

	"github.com/cointrader/coin-trader/pkg/types"
)

// NoticeAlphaStrategy buys coins mentioned in bullish exchange
// announcements. The notice feed collaborator pre-matches keywords; this
// strategy only scores the match.
type NoticeAlphaStrategy struct {
	keywords        []string
	listingKeywords map[string]bool
}

// NewNoticeAlpha creates a notice alpha strategy. Default keywords are the
// Korean exchange terms for new listing and airdrop announcements.
func NewNoticeAlpha(keywords []string) *NoticeAlphaStrategy {
	if len(keywords) == 0 {
		keywords = []string{"신규", "상장", "에어드롭"}
	}
	return &NoticeAlphaStrategy{
		keywords:        keywords,
		listingKeywords: map[string]bool{"신규": true, "상장": true},
	}
}

// NewNoticeAlphaFromParams builds a notice alpha strategy from a parameter map.
func NewNoticeAlphaFromParams(params map[string]interface{}) (*NoticeAlphaStrategy, error) {
	return NewNoticeAlpha(stringsParam(params, "keywords", nil)), nil
}

func (s *NoticeAlphaStrategy) Name() string {
	return "notice_alpha"
}

func (s *NoticeAlphaStrategy) Template() string {
	return "notice_alpha"
}

// Evaluate scans recent notices for a mention of the ticker. Listing
// announcements score higher than other keyword matches.
func (s *NoticeAlphaStrategy) Evaluate(ticker string, view *types.MarketView) (*types.Signal, error) {
	if len(view.Notices) == 0 || view.HasPosition {
		return nil, nil
	}

	for _, notice := range view.Notices {
		if !notice.Mentions(ticker) || len(notice.MatchedKeywords) == 0 {
			continue
		}

		strength := 0.6
		for _, kw := range notice.MatchedKeywords {
			if s.listingKeywords[kw] {
				strength = 0.9
				break
			}
		}

		title := notice.Title
		if len([]rune(title)) > 50 {
			title = string([]rune(title)[:50])
		}
		sig, err := types.NewSignal(s.Name(), ticker, types.SignalBuy, strength,
			fmt.Sprintf("Notice: %s", title))
		if err != nil {
			return nil, err
		}
		sig.WithParam("notice_id", notice.ID)
		return sig, nil
	}

	return nil, nil
}

func (s *NoticeAlphaStrategy) Describe() map[string]interface{} {
	return map[string]interface{}{
		"name":     s.Name(),
		"template": s.Template(),
		"keywords": s.keywords,
	}
}
