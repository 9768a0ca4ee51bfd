package conversation

// Kind — тип входящего события.
type Kind int

const (
	KindText Kind = iota
	KindButton
	KindCommand
)

// Event — одно входящее событие от пользователя.
// Для кнопки заполняется Action, для команды — Command (без "/") и Arg.
type Event struct {
	UserID  int64
	Kind    Kind
	Text    string
	Action  string
	Command string
	Arg     string
}

// Button — кнопка встроенной клавиатуры.
type Button struct {
	Text   string
	Action string
}

// Reply — исходящее сообщение.
// To == 0 означает автора события. Title выводится жирным, Code — блоком кода на языке CodeLang.
// Alert отмечает ответ на нажатие кнопки, который показывается всплывающим окном.
// Fallback отправляется автору события, если сообщение получателю To доставить не удалось.
type Reply struct {
	To       int64
	Title    string
	Text     string
	Code     string
	CodeLang string
	Buttons  [][]Button
	Alert    bool
	Fallback string
}

// Действия кнопок.
const (
	ActionMenu           = "menu"
	ActionStartPost      = "start_post"
	ActionSkipQuality    = "skip_q"
	ActionConfirmPost    = "confirm_post"
	ActionChannelsMenu   = "setup_channels_menu"
	ActionAddChannel     = "add_new_ch"
	ActionClearChannels  = "clear_channels"
	ActionSetUserZone    = "set_user_zone"
	ActionViewPremium    = "view_premium"
	ActionSetAdminZone   = "set_admin_zone"
	ActionSetAdminClicks = "set_admin_clicks"
	ActionSetOffer       = "set_offer_prompt"
	ActionAddMember      = "add_user_prompt"
	ActionRemoveMember   = "remove_user_prompt"
	ActionCancel         = "cancel"
)

// Команды.
const (
	CommandStart         = "start"
	CommandSettings      = "settings"
	CommandPost          = "post"
	CommandCancel        = "cancel"
	CommandSetZone       = "setzone"
	CommandSetClicks     = "setclicks"
	CommandSetOffer      = "setoffer"
	CommandAddPremium    = "addpremium"
	CommandDeletePremium = "delpremium"
	CommandStats         = "stats"
)
