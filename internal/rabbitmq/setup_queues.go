package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в обменнике notifications.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// BudgetAlertQueue имя очереди уведомлений о превышении бюджета.
const BudgetAlertQueue = "notifications.budget"

// BudgetAlertRoutingKey ключ маршрутизации уведомлений о превышении бюджета.
const BudgetAlertRoutingKey = "budget"

// GetNotificationQueues возвращает конфигурацию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BudgetAlertQueue, RoutingKey: BudgetAlertRoutingKey},
	}
}
