package out

import "context"

// PublisherPort — публикация результатов в исходящие топики.
// Payload сериализуется в JSON на стороне адаптера
type PublisherPort interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
	Close() error
}
