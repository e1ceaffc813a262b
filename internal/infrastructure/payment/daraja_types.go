package payment

import "encoding/json"

// darajaTokenResponse is the OAuth token grant response
type darajaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// darajaSTKPushRequest is the Lipa Na M-Pesa online payment request
type darajaSTKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// darajaSTKPushResponse is the synchronous acknowledgement of an STK push
type darajaSTKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// darajaQueryRequest asks for the outcome of an earlier STK push
type darajaQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// darajaQueryResponse answers a transaction status query. ResultCode
// is a string here even though the callback sends it as a number.
type darajaQueryResponse struct {
	ResponseCode      string `json:"ResponseCode"`
	ResponseDesc      string `json:"ResponseDescription"`
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
}

// darajaErrorResponse is the error envelope Daraja returns on 4xx/5xx
type darajaErrorResponse struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// darajaCallbackEnvelope wraps the asynchronous STK push result that
// Safaricom posts to the callback URL.
type darajaCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string          `json:"MerchantRequestID"`
			CheckoutRequestID string          `json:"CheckoutRequestID"`
			ResultCode        int             `json:"ResultCode"`
			ResultDesc        string          `json:"ResultDesc"`
			CallbackMetadata  *darajaMetadata `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// darajaMetadata only appears on successful payments
type darajaMetadata struct {
	Item []darajaMetadataItem `json:"Item"`
}

// darajaMetadataItem is a loosely typed name/value pair; Amount comes
// back as a JSON number, PhoneNumber sometimes as a number too.
type darajaMetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}
