// internal/domain/moderation/vocabulary.go
package moderation

// Vocabulary is the fixed profanity word list scanned in the review channel.
var Vocabulary = []string{
	"сука", "блядь", "пиздец", "хуй", "ебать", "гондон", "пидор", "хуесос", "мать", "еблан",
	"мудак", "тварь", "уебок", "залупа", "манда", "жопа", "дерьмо", "говнюк", "падла", "шлюха",
	"петух", "черт", "лох", "чмо", "урод", "сучка", "блядина", "пидарас", "хуила", "матерь",
	"ебанат", "мудила", "скотина", "уебище", "залупень", "мандовошка", "жопашник", "говно", "говноед",
	"паскуда", "блядюга", "курица", "дьявол", "лошара", "чертила", "выродок", "сучара", "блядская",
	"пидрила", "хуйня", "мамаша", "ебанутый", "мудозвон", "гадина", "уебан", "залупина", "мандище",
	"жопища", "говнище", "говнюшка", "стерва", "блядюшка", "козел", "бес", "ботаник", "чурка",
	"дебил", "сучье", "блядство", "пидорский", "хуевый", "мама", "ебанько", "мудорез", "гнида",
	"уебский", "залупный", "мандовый", "жопный", "говняный", "говнючий", "мерзавец", "блядский",
	"осел", "сатана", "зубрила", "хач", "кретин", "сученыш", "блядюжник", "пидормот", "хуеплес",
	"родители", "ебатория", "мудозвонство", "падаль", "уебищный", "залупоголовый", "мандотряс",
	"жополиз", "говномет", "говнятина", "подлец", "блядота", "баран", "шайтан", "очкарик",
	"чурбан", "идиот", "ублюдок", "засранец", "дурак", "придурок", "тупица", "остолоп",
	"балбес", "болван", "лопух", "мембрана", "дырка", "вагина", "пенис", "яйца", "мошонка",
	"ссанье", "пердеж", "блевотина", "задрот", "гей", "лесбиянка", "трансвестит", "гермафродит",
	"импотент", "фригидная", "онанист", "мастурбатор", "извращенец", "фетишист", "зоофил",
	"педофил", "некрофил", "копрофил", "урофил", "мразь", "гад", "зверь",
	"паразит", "пиявка", "вшивый", "вшивая", "блохастый", "глист", "червяк", "таракан", "крыса",
	"сволочь", "стервец", "стервоза", "стервозный", "сучий",
	"ебаный", "пиздецки", "хуево", "блядски", "ебано",
}
