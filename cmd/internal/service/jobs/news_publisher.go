package jobs

import (
	"context"

	"github.com/labstack/gommon/log"
)

type DueNewsPublisher interface {
	PublishDue(ctx context.Context) (int64, error)
}

// NewsPublisher moves scheduled news to PUBLISHED once their time comes.
type NewsPublisher struct {
	news     DueNewsPublisher
	schedule string
}

func NewNewsPublisher(news DueNewsPublisher, schedule string) *NewsPublisher {
	return &NewsPublisher{news: news, schedule: schedule}
}

func (p *NewsPublisher) Name() string {
	return "news-publisher"
}

func (p *NewsPublisher) Schedule() string {
	return p.schedule
}

func (p *NewsPublisher) Run(ctx context.Context) error {
	count, err := p.news.PublishDue(ctx)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Infof("News publisher: published %d scheduled news", count)
	}
	return nil
}
